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

// Package driver runs the simulation one frame per tick, rolling back and
// resimulating when remote input arrives that differs from the input that was
// predicted.
//
// The Driver owns the simulation context, the rewind history, the input store
// and the checksum validator. Nothing else mutates them. Each call to Tick()
// performs these steps in order:
//
//	poll the session for confirmed remote inputs and peer checksums
//	read and submit the local input for the next frame
//	if the earliest divergent frame is F, load frame F-1 and resimulate
//	    every frame up to the current frame, saving each one
//	advance to the next frame and save it
//	submit checksums for newly confirmed frames and compare peer checksums
//
// The driver will not advance a frame that would put the oldest unconfirmed
// frame beyond the rollback horizon. Instead it reports a stall and waits for
// the remote input to arrive. This means a rollback never needs a frame that is
// no longer in the rewind history.
//
// A checksum mismatch is reported but is not an error. A lost connection is
// terminal and so is any failure of the driver's own bookkeeping.
package driver
