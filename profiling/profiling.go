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

// Package profiling wraps a function with the CPU profiler and writes heap
// profiles. The profiles can be read with "go tool pprof".
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// CPU runs the function while writing a CPU profile to the file. If the
// filename is empty the function is run without profiling.
func CPU(outFile string, run func() error) (rerr error) {
	if outFile == "" {
		return run()
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("profiling: %w", err)
		}
	}()

	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	defer pprof.StopCPUProfile()

	return run()
}

// Heap writes a heap profile to the file.
func Heap(outFile string) error {
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("profiling: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	return nil
}
