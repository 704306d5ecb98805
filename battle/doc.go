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

// Package battle is the deterministic simulation of a fighting game match.
//
// All simulation state is held by the Context type: the shared BattleState, a
// fixed capacity array of SimObject slots and a fixed number of PlayerState
// records. Objects refer to one another by slot index and never by pointer.
// Restoring a Context from a snapshot therefore never requires any fixup.
//
// The Advance() function is the only way the simulation moves forward. It is
// a pure function of the Context and the input values for the frame. It does
// not read the clock, it does not use the math/rand package and it does not
// allocate. Random numbers come from the RNG stored in the BattleState.
//
// Presentation collaborators (camera, audio, HUD) read the simulation through
// a View and keep any state of their own in a Presentation. Neither is ever
// part of a snapshot.
package battle
