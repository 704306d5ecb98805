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

// Package recorder writes the confirmed inputs of a match to a replay file and
// plays them back.
//
// A replay is a zstd compressed text file. The file starts with a header of
// lines beginning with '#' which describe the match. Every other line is a
// confirmed frame:
//
//	<frame>, <player one input>, <player two input>, <checksum>
//
// The checksum is the checksum of the simulation state after the frame. During
// playback the simulation is run with the recorded inputs and the checksums
// compared. A difference means the simulation has changed since the recording
// was made.
package recorder
