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

// Package snapshot encodes the simulation state to a flat byte buffer and
// decodes it again. The size of the buffer is fixed by the capacities of the
// simulation and is the same for every snapshot.
//
// The layout is defined by an explicit list of fields, in order, rather than
// by the memory layout of the battle types:
//
//	BattleState
//	SimObject records, one per slot, including inactive slots
//	PlayerState records
//	extension state, one record per extension slot, including unused slots
//	liveness flags, one byte per slot
//
// Every record has a fixed stride and unused bytes are always zero. An inactive
// object slot is encoded as a record of zeroes. All values are little endian.
//
// There is no version field. Snapshots are only ever exchanged between
// instances of the same build.
package snapshot
