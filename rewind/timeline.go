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

package rewind

import "fmt"

// Timeline provides a summary of the current state of the rewind history.
//
// The available frames are every frame from AvailableStart to AvailableEnd
// inclusive. Both fields are -1 when nothing has been saved.
type Timeline struct {
	AvailableStart int
	AvailableEnd   int

	// the number of saves that replaced an earlier save. each rolled back frame
	// is resaved once
	Resaves int
}

func (tl Timeline) String() string {
	if tl.AvailableEnd < 0 {
		return "empty"
	}
	return fmt.Sprintf("%d to %d (%d resaves)", tl.AvailableStart, tl.AvailableEnd, tl.Resaves)
}

// Len returns the number of available frames.
func (tl Timeline) Len() int {
	if tl.AvailableEnd < 0 {
		return 0
	}
	return tl.AvailableEnd - tl.AvailableStart + 1
}

// GetTimeline returns a summary of the rewind history. Only the run of
// consecutive frames ending at the latest frame is considered available.
func (r *Rewind) GetTimeline() Timeline {
	tl := Timeline{
		AvailableStart: -1,
		AvailableEnd:   r.latest,
		Resaves:        r.resaves,
	}
	if r.latest < 0 {
		return tl
	}

	tl.AvailableStart = r.latest
	for f := r.latest - 1; f >= 0 && r.Contains(f); f-- {
		tl.AvailableStart = f
	}
	return tl
}
