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

// Package random should be used in preference to the math/rand package when a
// random number is required inside the battle simulation.
//
// The generator state is a single uint32 that lives inside the battle state
// and is serialised with it. Restoring a snapshot therefore restores the
// generator, and a resimulation after a rollback draws exactly the same
// numbers as the first simulation did.
//
// The math/rand package is not suitable because its state is hidden and is
// not part of the snapshot.
package random
