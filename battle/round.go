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

package battle

// roundInit places the main players at their starting positions and starts the
// round countdown
func (c *Context) roundInit() {
	b := &c.Battle

	c.clearBattleObjects()

	b.TimeUntilRoundStart = RoundStartDelay
	b.RoundTimer = b.RoundTimeLimit
	b.PauseTimer = 0
	b.CurrentScreenPos = 0
	b.SuperFreezeDuration = 0
	b.SuperFreezeSelfDuration = 0
	b.SuperFreezeCaller = NoSlot

	for i := range c.Players {
		p := &c.Players[i]
		slot := int(p.Slot)
		o := &c.Objects[slot]

		p.Flags &^= PlayerOnScreen
		p.Hitstun = 0
		p.Blockstun = 0
		p.ComboCounter = 0
		p.ComboTimer = 0

		*o = SimObject{
			Kind:       KindPlayer,
			Side:       p.Side,
			Facing:     1,
			Gravity:    gravity,
			PushWidth:  pushWidth,
			PushHeight: pushHeight,
			StateID:    StateTaggedOut,
			Parent:     NoSlot,
			Target:     NoSlot,
		}
		if p.Flags&PlayerKnockedOut != 0 {
			o.StateID = StateKnockedOut
		}
	}

	for s := range NumSides {
		slot := c.MainPlayer(s)
		player, _ := PlayerIndex(slot)
		o := &c.Objects[slot]
		c.Players[player].Flags |= PlayerOnScreen
		c.setState(slot, StateStand)
		if s == 0 {
			o.PosX = -b.RoundStartPos
			o.Facing = 1
		} else {
			o.PosX = b.RoundStartPos
			o.Facing = -1
		}
	}

	c.updateEnemies()
}

// updateIntro plays the intro of each side in turn. the intros only play
// before the first round
func (c *Context) updateIntro() {
	b := &c.Battle
	if b.CurrentIntroSide == IntroNone {
		return
	}
	b.CurrentSequenceTime++
	if b.CurrentSequenceTime < IntroLength {
		return
	}
	b.CurrentIntroSide++
	b.CurrentSequenceTime = 0
	if b.CurrentIntroSide >= IntroNone {
		b.CurrentIntroSide = IntroNone
		b.CurrentSequenceTime = -1
	}
}

// checkRoundEnd looks for knocked out main players and for the end of the
// round timer
func (c *Context) checkRoundEnd() {
	b := &c.Battle

	var down [NumSides]bool
	for s := range NumSides {
		player, _ := PlayerIndex(c.MainPlayer(s))
		p := &c.Players[player]
		if p.Health > 0 || p.Flags&PlayerKnockedOut != 0 {
			continue
		}
		p.Flags |= PlayerKnockedOut
		c.setState(c.MainPlayer(s), StateKnockedOut)

		// a team member takes over in tag formats
		if b.RoundFormat.CanTag() && c.SwitchMainPlayer(s) {
			continue
		}
		down[s] = true
	}

	switch {
	case down[0] && down[1]:
		c.endRound(NoSlot)
		return
	case down[0]:
		c.endRound(1)
		return
	case down[1]:
		c.endRound(0)
		return
	}

	if b.RoundTimeLimit > 0 {
		b.RoundTimer--
		if b.RoundTimer <= 0 {
			b.RoundTimer = 0
			c.endRound(c.timeoutWinner())
		}
	}
}

// timeoutWinner returns the side with the greater proportion of health
// remaining for its main player. NoSlot for a draw
func (c *Context) timeoutWinner() int {
	var health [NumSides]int32
	for s := range NumSides {
		player, _ := PlayerIndex(c.MainPlayer(s))
		p := c.Players[player]
		health[s] = p.Health * 1000 / max(p.MaxHealth, 1)
	}
	switch {
	case health[0] > health[1]:
		return 0
	case health[1] > health[0]:
		return 1
	}
	return NoSlot
}

func (c *Context) endRound(winner int) {
	b := &c.Battle
	if winner >= 0 {
		b.RoundsWon[winner]++
	}
	b.RoundCount++
	b.PauseTimer = RoundEndPause
	for s := range NumSides {
		c.Objects[c.MainPlayer(s)].Hitbox.Active = false
	}
}

// teamRemaining returns the number of team members not knocked out
func (c *Context) teamRemaining(side int) int {
	n := 0
	for _, i := range c.Team(side) {
		if c.Players[i].Flags&PlayerKnockedOut == 0 {
			n++
		}
	}
	return n
}

// matchWinner returns the winning side if the match has been decided
func (c *Context) matchWinner() (int, bool) {
	b := &c.Battle

	if b.RoundFormat.IsKOF() {
		r0 := c.teamRemaining(0)
		r1 := c.teamRemaining(1)
		switch {
		case r0 == 0 && r1 == 0:
			return NoSlot, true
		case r0 == 0:
			return 1, true
		case r1 == 0:
			return 0, true
		}
	} else {
		need := int32(b.RoundFormat.RoundsToWin())
		w0 := b.RoundsWon[0] >= need
		w1 := b.RoundsWon[1] >= need
		switch {
		case w0 && w1:
			return NoSlot, true
		case w0:
			return 0, true
		case w1:
			return 1, true
		}
	}

	if b.RoundCount >= MaxRoundCount {
		switch {
		case b.RoundsWon[0] > b.RoundsWon[1]:
			return 0, true
		case b.RoundsWon[1] > b.RoundsWon[0]:
			return 1, true
		}
		return NoSlot, true
	}

	return NoSlot, false
}

// nextRound starts a new round or ends the match
func (c *Context) nextRound() {
	b := &c.Battle

	if w, ok := c.matchWinner(); ok {
		b.MatchOver = true
		b.Winner = int32(w)
		c.clearBattleObjects()
		return
	}

	if b.RoundFormat.IsKOF() {
		// the knocked out player stays out. their next team member comes in
		// with full health and the survivor keeps their health
		for s := range NumSides {
			player, _ := PlayerIndex(c.MainPlayer(s))
			if c.Players[player].Flags&PlayerKnockedOut != 0 {
				for _, i := range c.Team(s) {
					if c.Players[i].Flags&PlayerKnockedOut == 0 {
						b.MainPlayer[s] = int32(PlayerSlot(i))
						break
					}
				}
			}
		}
	} else {
		for i := range c.Players {
			p := &c.Players[i]
			p.Flags &^= PlayerKnockedOut
			p.Health = p.MaxHealth
		}
		for s := range NumSides {
			b.MainPlayer[s] = int32(PlayerSlot(s * PlayersPerSide))
		}
	}

	c.roundInit()
}
