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

package digest

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Match is a digest of an entire match. Each frame's checksum is chained onto
// the previous value.
type Match struct {
	digest uint64
	frames int
}

// NewMatch is the preferred method of initialisation for the Match type.
func NewMatch() *Match {
	return &Match{}
}

// Hash implements the digest.Digest interface.
func (m *Match) Hash() string {
	return fmt.Sprintf("%016x", m.digest)
}

// ResetDigest implements the digest.Digest interface.
func (m *Match) ResetDigest() {
	m.digest = 0
	m.frames = 0
}

// Frames returns the number of frames added to the digest.
func (m *Match) Frames() int {
	return m.frames
}

// AddFrame chains the checksum of a frame onto the digest.
func (m *Match) AddFrame(checksum uint64) {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:], m.digest)
	binary.LittleEndian.PutUint64(b[8:], checksum)
	m.digest = xxhash.Sum64(b[:])
	m.frames++
}
