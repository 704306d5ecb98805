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

// Package digest computes checksums of the simulation state and compares them
// with the checksums reported by a peer.
//
// The Checksum() function is the hash of a single snapshot. The Validator type
// keeps a history of local checksums and a queue of peer checksums, and
// reports the result of comparing the two for frames that have been confirmed.
//
// The Match type implements the Digest interface. It chains the checksum of
// every frame into a single value that identifies an entire match. Two
// matches played with the same inputs have the same digest.
package digest

import (
	"github.com/cespare/xxhash/v2"
)

// Digest implementations compute a running hash of the simulation.
type Digest interface {
	Hash() string
	ResetDigest()
}

// Checksum returns the hash of a snapshot. The hash depends on the order and
// value of every byte.
func Checksum(b []byte) uint64 {
	return xxhash.Sum64(b)
}
