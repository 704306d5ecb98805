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

// Package assert contains checks that are only worth their cost during
// development. The checks are compiled in with the "assertions" build tag.
//
// Without the tag, Enabled is false and the compiler removes code guarded by
// it.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns the ID of the current goroutine.
//
// There is no official way of retrieving the ID and it should only be used to
// check that a type is being used from the goroutine that owns it.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine that first calls Check(). Later calls from a
// different goroutine panic. The zero value is ready to use.
type Owner struct {
	id uint64
}

// Check panics if called from a goroutine other than the owning goroutine.
// Does nothing unless assertions are enabled.
func (o *Owner) Check(what string) {
	if !Enabled {
		return
	}
	id := GetGoRoutineID()
	if o.id == 0 {
		o.id = id
		return
	}
	if o.id != id {
		panic(what + ": used from a goroutine other than its owner")
	}
}
