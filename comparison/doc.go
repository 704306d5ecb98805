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

// Package comparison runs a second simulation alongside the main simulation
// with the intention of comparing the two.
//
// The comparison simulation runs in its own goroutine. It is given the same
// inputs as the main simulation and both simulations produce a checksum for
// every frame. The main simulation is always exactly one frame ahead of, or
// level with, the comparison simulation. The caller is stalled while the
// comparison simulation completes the frame.
//
// Two simulations given the same setup and the same inputs must produce the
// same checksum for every frame. A difference indicates that the simulation
// depends on something other than its inputs, for example map iteration
// order, uninitialised memory or the wall clock.
package comparison
