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

package test

import (
	"fmt"
)

// RingWriter is an io.Writer that retains only the most recent bytes written
// to it. Useful for capturing the tail of log output during a test.
type RingWriter struct {
	buf     []byte
	cursor  int
	wrapped bool
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type. The size argument is the number of bytes retained.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("test: invalid size for RingWriter (%d)", size)
	}
	return &RingWriter{buf: make([]byte, size)}, nil
}

// String returns the retained bytes in the order they were written.
func (r *RingWriter) String() string {
	if !r.wrapped {
		return string(r.buf[:r.cursor])
	}
	s := make([]byte, 0, len(r.buf))
	s = append(s, r.buf[r.cursor:]...)
	s = append(s, r.buf[:r.cursor]...)
	return string(s)
}

// Reset empties the ring.
func (r *RingWriter) Reset() {
	r.cursor = 0
	r.wrapped = false
}

// Write implements the io.Writer interface.
func (r *RingWriter) Write(p []byte) (int, error) {
	n := len(p)

	// only the tail of an oversized write can survive
	if n > len(r.buf) {
		p = p[n-len(r.buf):]
		r.cursor = 0
		r.wrapped = false
	}

	for len(p) > 0 {
		c := copy(r.buf[r.cursor:], p)
		p = p[c:]
		r.cursor += c
		if r.cursor == len(r.buf) {
			r.cursor = 0
			r.wrapped = true
		}
	}

	return n, nil
}
