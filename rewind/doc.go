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

// Package rewind keeps the snapshots of the most recent frames of the
// simulation so that the simulation can be returned to an earlier frame and
// simulated forward again with corrected input.
//
// Snapshots are held in a circular array of pre-allocated buffers. The
// snapshot for a frame is stored at index frame%horizon and overwrites whatever
// was there. Each buffer remembers the frame it holds so that a request for a
// frame that has since been overwritten is rejected rather than silently
// returning the state of a different frame.
//
// A frame can be loaded if it is no more than horizon-1 frames behind the most
// recently saved frame. Any other request is a bug in the caller. Loading
// returns an error in normal builds and panics when built with the
// "assertions" build tag.
package rewind
