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

package input

import "strings"

// NumPlayers is the number of input values consumed by each frame of the
// simulation. One for each side.
const NumPlayers = 2

// Value is the state of a player's controller for a single frame. The bits
// are absolute directions and buttons; the simulation decides what "forward"
// means.
type Value int32

// List of valid input bits.
const (
	Up Value = 1 << iota
	Down
	Left
	Right
	A
	B
	C
	D
	Tag
)

// Mask covers every valid input bit.
const Mask = Up | Down | Left | Right | A | B | C | D | Tag

var names = []struct {
	bit  Value
	name string
}{
	{Up, "Up"}, {Down, "Down"}, {Left, "Left"}, {Right, "Right"},
	{A, "A"}, {B, "B"}, {C, "C"}, {D, "D"}, {Tag, "Tag"},
}

// Has returns true if every bit in b is set.
func (v Value) Has(b Value) bool {
	return v&b == b
}

func (v Value) String() string {
	if v&Mask == 0 {
		return "-"
	}
	var s strings.Builder
	for _, n := range names {
		if v&n.bit != 0 {
			if s.Len() > 0 {
				s.WriteRune('|')
			}
			s.WriteString(n.name)
		}
	}
	return s.String()
}
