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

// movement and physics
const (
	walkSpeed      = 3000
	jumpSpeed      = 30000
	jumpDrift      = 4000
	gravity        = 1900
	friction       = 500
	knockback      = 6000
	pushWidth      = 70000
	pushHeight     = 200000
	hitstopOnHit   = 8
	hitstopOnBlock = 5
)

// resources
const (
	superCost        = 5000
	tagCost          = DefaultMaxGauge
	guardRegen       = 5
	tagRegen         = 20
	guardDrainFactor = 2
	criticalChance   = 10
	minComboScaling  = 30
	comboScaleStep   = 10
)

// attack describes the frame data of an attacking state
type attack struct {
	startup  int32
	active   int32
	recovery int32
	damage   int32
	hitstun  int32
	hitbox   Hitbox

	// spawns a projectile on the first active frame
	projectile bool
}

func (a attack) total() int32 {
	return a.startup + a.active + a.recovery
}

var attacks = map[StateID]attack{
	StateLightAttack: {
		startup: 4, active: 3, recovery: 8,
		damage: 300, hitstun: 12,
		hitbox: Hitbox{OffsetX: 60000, OffsetY: 100000, Width: 60000, Height: 40000},
	},
	StateHeavyAttack: {
		startup: 9, active: 4, recovery: 18,
		damage: 800, hitstun: 20,
		hitbox: Hitbox{OffsetX: 80000, OffsetY: 80000, Width: 90000, Height: 50000},
	},
	StateSpecial: {
		startup: 10, active: 1, recovery: 24,
		projectile: true,
	},
	StateSuper: {
		startup: 3, active: 10, recovery: 30,
		damage: 2500, hitstun: 40,
		hitbox: Hitbox{OffsetX: 100000, OffsetY: 50000, Width: 200000, Height: 150000},
	},
}

// projectile spawned by the special attack
const (
	projectileSpeed    = 12000
	projectileLifetime = 90
	projectileDamage   = 600
	projectileHitstun  = 16
	projectileHeight   = 110000
	projectileSize     = 40000
	effectLifetime     = 12
	superFreeze        = 30
	superFreezeSelf    = 10
)

func (c *Context) setState(slot int, s StateID) {
	o := &c.Objects[slot]
	o.StateID = s
	o.ActionTime = 0
	o.Flags &^= FlagHasHit
	o.Hitbox.Active = false
}

// actionable returns true if the object can start a new action
func (c *Context) actionable(slot int) bool {
	o := &c.Objects[slot]
	if o.Flags&FlagAirborne != 0 {
		return false
	}
	switch o.StateID {
	case StateStand, StateCrouch, StateWalkForward, StateWalkBackward:
		return true
	}
	return false
}

// forward returns the input bit that moves the object toward its facing
func forward(facing int32) input.Value {
	if facing < 0 {
		return input.Left
	}
	return input.Right
}

func back(facing int32) input.Value {
	if facing < 0 {
		return input.Right
	}
	return input.Left
}

// bufferInput updates the player's input history without acting on it
func (c *Context) bufferInput(player int, in input.Value) input.Value {
	p := &c.Players[player]
	prev := p.Input
	p.Input = in
	copy(p.InputBuffer[:], p.InputBuffer[1:])
	p.InputBuffer[InputBufferSize-1] = in
	return in &^ prev
}

// buffered returns true if the bit was held at some point in the input buffer
func (p *PlayerState) buffered(bit input.Value) bool {
	for _, v := range p.InputBuffer {
		if v&bit != 0 {
			return true
		}
	}
	return false
}

// controlPlayer applies the input to the side's main player
func (c *Context) controlPlayer(side int, in input.Value) {
	slot := c.MainPlayer(side)
	player, _ := PlayerIndex(slot)
	pressed := c.bufferInput(player, in)

	p := &c.Players[player]
	o := &c.Objects[slot]

	// burst out of hitstun with a full burst gauge
	if o.StateID == StateHitstun && pressed&input.D != 0 && c.UseGauge(side, GaugeBurst, DefaultMaxGauge) {
		p.Hitstun = 0
		c.setState(slot, StateStand)
		e := &c.Objects[p.Enemy]
		e.SpeedX = knockback * 2 * o.Facing
		return
	}

	if !c.actionable(slot) {
		return
	}

	fwd := forward(o.Facing)
	bck := back(o.Facing)

	switch {
	case pressed&input.Tag != 0 && c.CanTag(side):
		c.UseGauge(side, GaugeTag, tagCost)
		c.SwitchMainPlayer(side)
	case pressed&input.D != 0 && c.Battle.Meter[side] >= superCost:
		c.UseMeter(side, superCost)
		c.startAttack(slot, StateSuper)
		c.StartSuperFreeze(superFreeze, superFreezeSelf, slot)
	case pressed&input.C != 0 && in&fwd != 0 && p.buffered(input.Down):
		c.startAttack(slot, StateSpecial)
	case pressed&input.B != 0:
		c.startAttack(slot, StateHeavyAttack)
	case pressed&input.A != 0:
		c.startAttack(slot, StateLightAttack)
	case in&input.Up != 0:
		c.setState(slot, StateJump)
		o.Flags |= FlagAirborne
		o.SpeedY = jumpSpeed
		o.SpeedX = 0
		if in&fwd != 0 {
			o.SpeedX = jumpDrift * o.Facing
		} else if in&bck != 0 {
			o.SpeedX = -jumpDrift * o.Facing
		}
	case in&input.Down != 0:
		if o.StateID != StateCrouch {
			c.setState(slot, StateCrouch)
		}
		o.SpeedX = 0
	case in&fwd != 0:
		if o.StateID != StateWalkForward {
			c.setState(slot, StateWalkForward)
		}
		o.SpeedX = walkSpeed * o.Facing
	case in&bck != 0:
		if o.StateID != StateWalkBackward {
			c.setState(slot, StateWalkBackward)
		}
		o.SpeedX = -walkSpeed * o.Facing
	default:
		if o.StateID != StateStand {
			c.setState(slot, StateStand)
		}
		o.SpeedX = 0
	}
}

func (c *Context) startAttack(slot int, s StateID) {
	c.setState(slot, s)
	o := &c.Objects[slot]
	a := attacks[s]
	o.SpeedX = 0
	o.Hitbox = a.hitbox
	o.Hitbox.Active = false
	o.HitDamage = a.damage
	o.HitStun = a.hitstun
}

// progressAttack moves an attacking player through the frames of the attack.
// ActionTime has already been incremented for this frame.
func (c *Context) progressAttack(slot int) {
	o := &c.Objects[slot]
	a := attacks[o.StateID]

	if o.ActionTime == a.startup+1 && a.projectile {
		x := o.PosX + o.Facing*pushWidth/2
		if p, ok := c.AddBattleObject(KindProjectile, x, projectileHeight, o.Facing, slot); ok {
			po := &c.Objects[p]
			po.StateID = StateProjectile
			po.SpeedX = projectileSpeed * o.Facing
			po.Lifetime = projectileLifetime
			po.HitDamage = projectileDamage
			po.HitStun = projectileHitstun
			po.Hitbox = Hitbox{Width: projectileSize, Height: projectileSize, Active: true}
		}
	}

	o.Hitbox.Active = !a.projectile && o.ActionTime > a.startup && o.ActionTime <= a.startup+a.active

	if o.ActionTime >= a.total() {
		c.setState(slot, StateStand)
	}
}

// updatePlayerObject is the per-frame update of a player object that is on
// screen and not in hitstop
func (c *Context) updatePlayerObject(slot int) {
	o := &c.Objects[slot]
	player, _ := PlayerIndex(slot)
	p := &c.Players[player]

	o.PosX += o.SpeedX
	if o.Flags&FlagAirborne != 0 {
		o.PosY += o.SpeedY
		o.SpeedY -= o.Gravity
		if o.PosY <= 0 {
			o.PosY = 0
			o.SpeedY = 0
			o.SpeedX = 0
			o.Flags &^= FlagAirborne
			if o.StateID == StateJump {
				c.setState(slot, StateStand)
			}
		}
	} else if o.StateID != StateWalkForward && o.StateID != StateWalkBackward {
		switch {
		case o.SpeedX > friction:
			o.SpeedX -= friction
		case o.SpeedX < -friction:
			o.SpeedX += friction
		default:
			o.SpeedX = 0
		}
	}

	switch o.StateID {
	case StateLightAttack, StateHeavyAttack, StateSpecial, StateSuper:
		c.progressAttack(slot)
	case StateHitstun:
		p.ComboTimer++
		p.Hitstun--
		if p.Hitstun <= 0 {
			p.Hitstun = 0
			p.ComboCounter = 0
			p.ComboTimer = 0
			c.setState(slot, StateStand)
		}
	case StateBlockstun:
		p.Blockstun--
		if p.Blockstun <= 0 {
			p.Blockstun = 0
			c.setState(slot, StateStand)
		}
	}
}

// blocking returns true if the player is guarding against an attack coming
// from the attacker's position
func (c *Context) blocking(slot int, attackerX int32) bool {
	o := &c.Objects[slot]
	player, _ := PlayerIndex(slot)
	p := &c.Players[player]

	if o.Flags&FlagAirborne != 0 {
		return false
	}
	if !c.actionable(slot) && o.StateID != StateBlockstun {
		return false
	}
	if c.Battle.Gauge[p.Side][GaugeGuard] <= 0 {
		return false
	}

	// holding away from the attacker
	if attackerX >= o.PosX {
		return p.Input&input.Left != 0
	}
	return p.Input&input.Right != 0
}
