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

package profiling_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nightskyengine/rollback/profiling"
	"github.com/nightskyengine/rollback/test"
)

func TestCPU(t *testing.T) {
	var ran bool
	test.DemandSuccess(t, profiling.CPU("", func() error {
		ran = true
		return nil
	}))
	test.ExpectSuccess(t, ran)

	out := filepath.Join(t.TempDir(), "cpu.profile")
	test.DemandSuccess(t, profiling.CPU(out, func() error {
		return nil
	}))
	_, err := os.Stat(out)
	test.ExpectSuccess(t, err)

	// the error from the function is returned
	errRun := errors.New("run")
	err = profiling.CPU(filepath.Join(t.TempDir(), "cpu2.profile"), func() error {
		return errRun
	})
	test.ExpectSuccess(t, errors.Is(err, errRun))
}

func TestHeap(t *testing.T) {
	out := filepath.Join(t.TempDir(), "heap.profile")
	test.DemandSuccess(t, profiling.Heap(out))

	info, err := os.Stat(out)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, info.Size() > 0)
}
