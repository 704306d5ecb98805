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

package bots

import (
	"fmt"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/random"
)

// Masher presses buttons at random. Each combination of buttons is held for a
// random number of frames. The sequence depends only on the seed.
type Masher struct {
	rnd      random.Random
	feedback *Feedback

	held  input.Value
	until int
}

// NewMasher is the preferred method of initialisation for the Masher type.
func NewMasher(seed uint32) *Masher {
	return &Masher{
		rnd:      random.NewRandom(seed),
		feedback: newFeedback(),
	}
}

// BotID implements the Bot interface.
func (m *Masher) BotID() string {
	return "masher"
}

// Feedback implements the Bot interface.
func (m *Masher) Feedback() *Feedback {
	return m.feedback
}

// Present implements the Bot interface. The masher does not look at the match.
func (m *Masher) Present(_ battle.View) {
}

// LocalInput implements the Bot interface.
func (m *Masher) LocalInput(frame int) input.Value {
	if frame >= m.until {
		m.held = input.Value(m.rnd.Next()) & input.Mask

		// opposite directions cancel out
		if m.held.Has(input.Left | input.Right) {
			m.held &^= input.Left
		}
		if m.held.Has(input.Up | input.Down) {
			m.held &^= input.Up
		}

		m.until = frame + 1 + m.rnd.Intn(12)
		m.feedback.diagnose("masher", fmt.Sprintf("frame %d: %s", frame, m.held))
	}
	return m.held
}
