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
)

// the distance at which the chaser stops walking and starts attacking
const chaseRange = 110000

// Chaser walks toward the opponent and attacks when close enough. It blocks
// when the opponent attacks first.
type Chaser struct {
	side     int
	feedback *Feedback

	view battle.View

	// the decision made on the most recent frame. used to report changes of
	// mind rather than every frame
	decision string
}

// NewChaser is the preferred method of initialisation for the Chaser type. The
// player argument is the player the bot controls.
func NewChaser(player int) *Chaser {
	return &Chaser{
		side:     player,
		feedback: newFeedback(),
	}
}

// BotID implements the Bot interface.
func (c *Chaser) BotID() string {
	return "chaser"
}

// Feedback implements the Bot interface.
func (c *Chaser) Feedback() *Feedback {
	return c.feedback
}

// Present implements the Bot interface.
func (c *Chaser) Present(v battle.View) {
	c.view = v
}

func (c *Chaser) decide(frame int, decision string) {
	if decision != c.decision {
		c.decision = decision
		c.feedback.diagnose("chaser", fmt.Sprintf("frame %d: %s", frame, decision))
	}
}

func attacking(s battle.StateID) bool {
	switch s {
	case battle.StateLightAttack, battle.StateHeavyAttack, battle.StateSuper:
		return true
	}
	return false
}

// LocalInput implements the Bot interface.
func (c *Chaser) LocalInput(frame int) input.Value {
	if !c.view.Valid() {
		return 0
	}

	_, us := c.view.MainPlayer(c.side)
	_, them := c.view.MainPlayer(1 - c.side)

	toward := input.Right
	away := input.Left
	distance := them.PosX - us.PosX
	if distance < 0 {
		toward, away = away, toward
		distance = -distance
	}

	if distance > chaseRange {
		c.decide(frame, "chase")
		return toward
	}

	if attacking(them.StateID) {
		c.decide(frame, "block")
		return away
	}

	// attacks start on a new press so the button is released every other
	// frame
	c.decide(frame, "attack")
	if frame%2 == 0 {
		return input.A
	}
	return 0
}
