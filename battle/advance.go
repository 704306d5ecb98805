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

import (
	"github.com/nightskyengine/rollback/input"
)

// Advance the simulation by one frame using the input values for the frame.
// The result depends only on the Context and the input values.
func (c *Context) Advance(inputs [input.NumPlayers]input.Value) {
	b := &c.Battle
	b.FrameNumber++

	if b.MatchOver {
		return
	}

	if b.PauseTimer > 0 {
		b.PauseTimer--
		c.updateEffects()
		if b.PauseTimer == 0 {
			c.nextRound()
		}
		return
	}

	if b.TimeUntilRoundStart > 0 {
		b.TimeUntilRoundStart--
		c.updateIntro()
		for s := range NumSides {
			player, _ := PlayerIndex(c.MainPlayer(s))
			c.bufferInput(player, inputs[s])
		}
		return
	}

	if b.SuperFreezeDuration > 0 {
		b.SuperFreezeDuration--
		caller := int(b.SuperFreezeCaller)
		for s := range NumSides {
			if c.MainPlayer(s) != caller {
				player, _ := PlayerIndex(c.MainPlayer(s))
				c.bufferInput(player, inputs[s])
			}
		}
		if b.SuperFreezeSelfDuration > 0 {
			b.SuperFreezeSelfDuration--
		} else if caller >= 0 && caller < MaxObjects && c.Active[caller] {
			c.updateObject(caller)
			c.hitCollision()
		}
		if b.SuperFreezeDuration == 0 {
			b.SuperFreezeCaller = NoSlot
		}
		return
	}

	for s := range NumSides {
		c.controlPlayer(s, inputs[s])
	}

	c.regenGauges()
	c.updateObjects()
	c.pushCollision()
	c.hitCollision()
	c.updateScreen()
	c.clampPositions()
	c.updateFacing()
	c.checkRoundEnd()
	c.runExtensions()
}

func (c *Context) regenGauges() {
	for s := range NumSides {
		c.SetGauge(s, GaugeGuard, c.Gauge(s, GaugeGuard)+guardRegen)
		c.SetGauge(s, GaugeTag, c.Gauge(s, GaugeTag)+tagRegen)
	}
}

// updateObjects advances every active object in slot order
func (c *Context) updateObjects() {
	for slot := range MaxObjects {
		if !c.Active[slot] {
			continue
		}
		if player, ok := PlayerIndex(slot); ok && c.Players[player].Flags&PlayerOnScreen == 0 {
			continue
		}
		c.updateObject(slot)
	}
}

// updateEffects advances only the visual effect objects. used while the round
// is paused
func (c *Context) updateEffects() {
	for slot := range MaxBattleObjects {
		if c.Active[slot] && c.Objects[slot].Kind == KindEffect {
			c.updateObject(slot)
		}
	}
}

func (c *Context) updateObject(slot int) {
	o := &c.Objects[slot]
	if o.Hitstop > 0 {
		o.Hitstop--
		return
	}

	o.ActionTime++

	switch o.Kind {
	case KindPlayer:
		c.updatePlayerObject(slot)
	case KindProjectile, KindEffect:
		o.PosX += o.SpeedX
		o.PosY += o.SpeedY
		if o.Lifetime > 0 {
			o.Lifetime--
			if o.Lifetime == 0 {
				c.Deactivate(slot)
			}
		}
	}
}

// pushCollision keeps the main players from overlapping
func (c *Context) pushCollision() {
	a := &c.Objects[c.MainPlayer(0)]
	b := &c.Objects[c.MainPlayer(1)]

	// no push if one player is above the other
	if a.PosY >= b.PosY+b.PushHeight || b.PosY >= a.PosY+a.PushHeight {
		return
	}

	dx := b.PosX - a.PosX
	dist := (a.PushWidth + b.PushWidth) / 2
	if dx >= dist || -dx >= dist {
		return
	}

	var overlap int32
	if dx >= 0 {
		overlap = dist - dx
	} else {
		overlap = dist + dx
	}

	// side zero is pushed left when the positions are equal
	dir := int32(1)
	if dx < 0 {
		dir = -1
	}

	a.PosX -= dir * (overlap / 2)
	b.PosX += dir * (overlap - overlap/2)
}

type rect struct {
	x0, y0, x1, y1 int32
}

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

func hitRect(o *SimObject) rect {
	cx := o.PosX + o.Facing*o.Hitbox.OffsetX
	cy := o.PosY + o.Hitbox.OffsetY
	return rect{
		x0: cx - o.Hitbox.Width/2,
		x1: cx + o.Hitbox.Width/2,
		y0: cy - o.Hitbox.Height/2,
		y1: cy + o.Hitbox.Height/2,
	}
}

func hurtRect(o *SimObject) rect {
	return rect{
		x0: o.PosX - o.PushWidth/2,
		x1: o.PosX + o.PushWidth/2,
		y0: o.PosY,
		y1: o.PosY + o.PushHeight,
	}
}

// hitCollision checks every active hitbox against the opposing main player.
// Slots are checked in order so the outcome of simultaneous hits is fixed.
func (c *Context) hitCollision() {
	for slot := range MaxObjects {
		if !c.Active[slot] {
			continue
		}
		o := &c.Objects[slot]
		if !o.Hitbox.Active || o.Flags&FlagHasHit != 0 || o.Hitstop > 0 {
			continue
		}
		if o.Side < 0 || o.Side >= NumSides {
			continue
		}

		target := c.MainPlayer(1 - int(o.Side))
		d := &c.Objects[target]
		if d.StateID == StateKnockedOut {
			continue
		}
		if !hitRect(o).overlaps(hurtRect(d)) {
			continue
		}

		c.applyHit(slot, target)
	}
}

// applyHit resolves a hit by the attacker on the defending player
func (c *Context) applyHit(attacker int, defender int) {
	a := &c.Objects[attacker]
	d := &c.Objects[defender]
	dp, _ := PlayerIndex(defender)
	p := &c.Players[dp]

	a.Flags |= FlagHasHit
	a.Target = int32(defender)

	side := int(a.Side)
	dir := int32(1)
	if a.PosX > d.PosX {
		dir = -1
	}

	if c.blocking(defender, a.PosX) {
		p.Blockstun = a.HitStun * 2 / 3
		c.setState(defender, StateBlockstun)
		d.SpeedX = dir * knockback / 2
		c.SetGauge(int(p.Side), GaugeGuard, c.Gauge(int(p.Side), GaugeGuard)-a.HitDamage*guardDrainFactor)
		c.AddMeter(side, a.HitDamage/4)
		c.hitstop(attacker, defender, hitstopOnBlock)
	} else {
		damage := a.HitDamage
		if c.Battle.Random.Chance(criticalChance) {
			damage = damage * 3 / 2
		}
		scale := max(100-comboScaleStep*p.ComboCounter, minComboScaling)
		damage = damage * scale / 100

		p.Health = max(p.Health-damage, 0)
		p.Hitstun = a.HitStun
		p.ComboCounter++
		c.setState(defender, StateHitstun)
		d.SpeedX = dir * knockback
		if d.Flags&FlagAirborne != 0 {
			d.SpeedY = jumpSpeed / 3
		}

		c.AddMeter(side, damage/2)
		c.AddMeter(int(p.Side), damage/4)
		c.SetGauge(int(p.Side), GaugeBurst, c.Gauge(int(p.Side), GaugeBurst)+damage)
		c.hitstop(attacker, defender, hitstopOnHit)
	}

	x := (a.PosX + d.PosX) / 2
	if e, ok := c.AddBattleObject(KindEffect, x, a.PosY+a.Hitbox.OffsetY, a.Facing, attacker); ok {
		c.Objects[e].StateID = StateEffect
		c.Objects[e].Lifetime = effectLifetime
	}

	if a.Kind == KindProjectile {
		c.Deactivate(attacker)
	}
}

func (c *Context) hitstop(attacker int, defender int, frames int32) {
	if c.Objects[attacker].Kind == KindPlayer {
		c.Objects[attacker].Hitstop = frames
	}
	c.Objects[defender].Hitstop = frames
}

// updateScreen centres the screen between the main players, within the stage
func (c *Context) updateScreen() {
	b := &c.Battle
	mid := (c.Objects[c.MainPlayer(0)].PosX + c.Objects[c.MainPlayer(1)].PosX) / 2
	limit := (b.StageBounds - b.ScreenBounds) / 2
	b.CurrentScreenPos = min(max(mid, -limit), limit)
}

// clampPositions keeps the main players on screen and on stage
func (c *Context) clampPositions() {
	b := &c.Battle
	for s := range NumSides {
		o := &c.Objects[c.MainPlayer(s)]
		half := o.PushWidth / 2

		lo := max(b.CurrentScreenPos-b.ScreenBounds/2, -b.StageBounds/2) + half
		hi := min(b.CurrentScreenPos+b.ScreenBounds/2, b.StageBounds/2) - half
		o.PosX = min(max(o.PosX, lo), hi)
	}
}

// updateFacing turns the main players toward each other when they are able to
// turn
func (c *Context) updateFacing() {
	for s := range NumSides {
		slot := c.MainPlayer(s)
		if !c.actionable(slot) {
			continue
		}
		o := &c.Objects[slot]
		other := c.Objects[c.MainPlayer(1-s)].PosX
		if other > o.PosX {
			o.Facing = 1
		} else if other < o.PosX {
			o.Facing = -1
		}
	}
}
