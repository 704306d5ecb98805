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

// Context is the entire state of the simulation. It is owned by one goroutine
// and is never shared.
type Context struct {
	Battle  BattleState
	Objects [MaxObjects]SimObject
	Players [MaxPlayerObjects]PlayerState

	// liveness of each object slot. player slots are always active
	Active [MaxObjects]bool

	// the state of each extension, in the order the extensions were added
	ExtensionData [MaxExtensions]ExtensionState

	// the extensions are not state. they survive Reset() and the restoring
	// of a snapshot
	extensions [MaxExtensions]Extension
}

// PlayerSlot returns the object slot of the player with the index.
func PlayerSlot(player int) int {
	return MaxBattleObjects + player
}

// PlayerIndex returns the player index for the object slot. Returns false if
// the slot is not a player slot.
func PlayerIndex(slot int) (int, bool) {
	if slot < MaxBattleObjects || slot >= MaxObjects {
		return 0, false
	}
	return slot - MaxBattleObjects, true
}

// NewContext creates the state of the simulation at frame zero.
func NewContext(setup Setup) *Context {
	c := &Context{}
	c.Reset(setup)
	return c
}

// Reset the context to the state at frame zero.
func (c *Context) Reset(setup Setup) {
	ext := c.extensions
	*c = Context{}
	c.extensions = ext

	if !setup.RoundFormat.Valid() {
		setup.RoundFormat = FirstToTwo
	}

	b := &c.Battle
	b.RoundFormat = setup.RoundFormat
	b.RoundStartPos = DefaultRoundStartPos
	b.ScreenBounds = DefaultScreenBounds
	b.StageBounds = DefaultStageBounds
	b.RoundTimeLimit = int32(max(setup.RoundTime, 0) * FramesPerSecond)
	b.Random.Seed(setup.Seed)
	b.SuperFreezeCaller = NoSlot
	b.Winner = NoSlot
	for s := range NumSides {
		b.MaxMeter[s] = DefaultMaxMeter
	}
	for g := range GaugeCount {
		b.MaxGauge[g] = DefaultMaxGauge
	}

	for i := range MaxBattleObjects {
		c.Objects[i] = EmptyObject()
	}

	teamSize := setup.RoundFormat.TeamSize()
	for i := range MaxPlayerObjects {
		slot := PlayerSlot(i)
		side := int32(i / PlayersPerSide)

		c.Active[slot] = true
		c.Objects[slot] = SimObject{
			Kind:       KindPlayer,
			Side:       side,
			Facing:     1,
			Gravity:    gravity,
			PushWidth:  pushWidth,
			PushHeight: pushHeight,
			StateID:    StateTaggedOut,
			Parent:     NoSlot,
			Target:     NoSlot,
		}
		c.Players[i] = PlayerState{
			Slot:      int32(slot),
			Side:      side,
			TeamIndex: int32(i % PlayersPerSide),
			MaxHealth: DefaultMaxHealth,
			Health:    DefaultMaxHealth,
			Enemy:     NoSlot,
		}
		if i%PlayersPerSide < teamSize {
			c.Players[i].Flags |= PlayerInUse
		}
	}

	for s := range NumSides {
		b.MainPlayer[s] = int32(PlayerSlot(s * PlayersPerSide))
	}

	c.roundInit()

	b.CurrentIntroSide = IntroSide0
	b.CurrentSequenceTime = 0
}

// EmptyObject returns the contents of an inactive object slot.
func EmptyObject() SimObject {
	return SimObject{Parent: NoSlot, Target: NoSlot}
}

// Frame returns the number of frames simulated since the start of the match.
func (c *Context) Frame() int {
	return int(c.Battle.FrameNumber)
}

// AddBattleObject places a new object in the first free battle object slot.
// Returns false if there are no free slots.
func (c *Context) AddBattleObject(kind Kind, x, y int32, facing int32, parent int) (int, bool) {
	for slot := range MaxBattleObjects {
		if c.Active[slot] {
			continue
		}

		side := int32(0)
		if parent >= 0 && parent < MaxObjects {
			side = c.Objects[parent].Side
		} else {
			parent = NoSlot
		}

		c.Active[slot] = true
		c.Objects[slot] = SimObject{
			PosX:   x,
			PosY:   y,
			Facing: facing,
			Kind:   kind,
			Side:   side,
			Parent: int32(parent),
			Target: NoSlot,
		}
		c.Battle.ActiveObjectCount++
		return slot, true
	}
	return NoSlot, false
}

// Deactivate frees the battle object slot. The slot contents are zeroed so
// that an inactive slot has no influence on a snapshot. Player slots cannot be
// deactivated.
func (c *Context) Deactivate(slot int) {
	if slot < 0 || slot >= MaxBattleObjects || !c.Active[slot] {
		return
	}
	c.Active[slot] = false
	c.Objects[slot] = EmptyObject()
	c.Battle.ActiveObjectCount--
}

// deactivate all battle objects
func (c *Context) clearBattleObjects() {
	for slot := range MaxBattleObjects {
		c.Deactivate(slot)
	}
}

// Gauge returns the value of the gauge for the side.
func (c *Context) Gauge(side int, idx int) int32 {
	return c.Battle.Gauge[side][idx]
}

// SetGauge sets the value of the gauge for the side, clamped to the range of
// the gauge.
func (c *Context) SetGauge(side int, idx int, v int32) {
	c.Battle.Gauge[side][idx] = min(max(v, 0), c.Battle.MaxGauge[idx])
}

// UseGauge removes the amount from the gauge. Returns false, leaving the gauge
// untouched, if there is not enough in the gauge.
func (c *Context) UseGauge(side int, idx int, v int32) bool {
	if c.Battle.Gauge[side][idx] < v {
		return false
	}
	c.Battle.Gauge[side][idx] -= v
	return true
}

// AddMeter adds to the super meter of the side, clamped to the maximum.
func (c *Context) AddMeter(side int, v int32) {
	b := &c.Battle
	b.Meter[side] = min(max(b.Meter[side]+v, 0), b.MaxMeter[side])
}

// UseMeter removes the amount from the super meter. Returns false, leaving the
// meter untouched, if there is not enough meter.
func (c *Context) UseMeter(side int, v int32) bool {
	if c.Battle.Meter[side] < v {
		return false
	}
	c.Battle.Meter[side] -= v
	return true
}

// StartSuperFreeze stops every object other than the caller for the duration.
// The caller itself is stopped for the self duration.
func (c *Context) StartSuperFreeze(duration int32, selfDuration int32, caller int) {
	b := &c.Battle
	b.SuperFreezeDuration = duration
	b.SuperFreezeSelfDuration = min(selfDuration, duration)
	b.SuperFreezeCaller = int32(caller)
}

// MainPlayer returns the slot of the player object in control for the side.
func (c *Context) MainPlayer(side int) int {
	return int(c.Battle.MainPlayer[side])
}

// Team returns the player indexes in use by the side, in team order.
func (c *Context) Team(side int) []int {
	t := make([]int, 0, PlayersPerSide)
	for i := side * PlayersPerSide; i < (side+1)*PlayersPerSide; i++ {
		if c.Players[i].Flags&PlayerInUse != 0 {
			t = append(t, i)
		}
	}
	return t
}

// next team member after the main player that has not been knocked out
func (c *Context) nextTeamMember(side int) (int, bool) {
	main, _ := PlayerIndex(c.MainPlayer(side))
	for n := 1; n < PlayersPerSide; n++ {
		i := side*PlayersPerSide + (main-side*PlayersPerSide+n)%PlayersPerSide
		f := c.Players[i].Flags
		if f&PlayerInUse != 0 && f&PlayerKnockedOut == 0 {
			return i, true
		}
	}
	return 0, false
}

// CanTag returns true if the main player of the side can be switched with a
// team member.
func (c *Context) CanTag(side int) bool {
	if !c.Battle.RoundFormat.CanTag() {
		return false
	}
	if c.Battle.Gauge[side][GaugeTag] < tagCost {
		return false
	}
	if !c.actionable(c.MainPlayer(side)) {
		return false
	}
	_, ok := c.nextTeamMember(side)
	return ok
}

// SwitchMainPlayer brings the next available team member into play in place of
// the current main player. Returns false if there is no team member available.
func (c *Context) SwitchMainPlayer(side int) bool {
	next, ok := c.nextTeamMember(side)
	if !ok {
		return false
	}

	oldSlot := c.MainPlayer(side)
	old := &c.Objects[oldSlot]
	oldPlayer, _ := PlayerIndex(oldSlot)

	slot := PlayerSlot(next)
	o := &c.Objects[slot]
	o.PosX = old.PosX
	o.PosY = 0
	o.SpeedX = 0
	o.SpeedY = 0
	o.Facing = old.Facing
	o.Hitstop = 0
	o.Hitbox = Hitbox{}
	c.setState(slot, StateStand)
	c.Players[next].Flags |= PlayerOnScreen

	if c.Players[oldPlayer].Flags&PlayerKnockedOut == 0 {
		c.setState(oldSlot, StateTaggedOut)
	}
	old.Hitbox = Hitbox{}
	c.Players[oldPlayer].Flags &^= PlayerOnScreen

	c.Battle.MainPlayer[side] = int32(slot)
	c.updateEnemies()

	return true
}

// point every player at the opposing main player
func (c *Context) updateEnemies() {
	for i := range c.Players {
		c.Players[i].Enemy = c.Battle.MainPlayer[1-c.Players[i].Side]
	}
}
