// This file is part of Nightsky.
//
// Nightsky is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Nightsky is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Nightsky.  If not, see <https://www.gnu.org/licenses/>.

// Package synctest checks that the simulation survives being rolled back.
//
// Every step advances the simulation one frame, then restores the state from
// an earlier frame and resimulates back to the current frame. The checksum of
// every resimulated frame must equal the checksum recorded when the frame was
// first simulated. A difference means the snapshot does not capture the whole
// of the simulation state, or that the simulation depends on something outside
// of its state.
//
// No network is involved. Both players' inputs are given to Step() directly.
package synctest
