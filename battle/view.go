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

// View is a read-only view of a Context for presentation collaborators. All
// accessors return copies. A View must not be kept beyond the tick it was given
// in because the Context is overwritten in place on the next tick.
type View struct {
	ctx *Context
}

// View returns a read-only view of the Context.
func (c *Context) View() View {
	return View{ctx: c}
}

// Valid returns false for the zero View.
func (v View) Valid() bool {
	return v.ctx != nil
}

// Frame returns the frame number of the viewed state.
func (v View) Frame() int {
	return int(v.ctx.Battle.FrameNumber)
}

// Battle returns a copy of the battle state.
func (v View) Battle() BattleState {
	return v.ctx.Battle
}

// Object returns a copy of the object in the slot. Returns false if the slot
// is not active.
func (v View) Object(slot int) (SimObject, bool) {
	if slot < 0 || slot >= MaxObjects || !v.ctx.Active[slot] {
		return SimObject{}, false
	}
	return v.ctx.Objects[slot], true
}

// Player returns a copy of the player state.
func (v View) Player(player int) PlayerState {
	return v.ctx.Players[player]
}

// MainPlayer returns a copy of the main player state and object for the side.
func (v View) MainPlayer(side int) (PlayerState, SimObject) {
	slot := v.ctx.MainPlayer(side)
	player, _ := PlayerIndex(slot)
	return v.ctx.Players[player], v.ctx.Objects[slot]
}

// ActiveObjects calls the function for every active object in slot order.
func (v View) ActiveObjects(f func(slot int, o SimObject)) {
	for slot := range MaxObjects {
		if v.ctx.Active[slot] {
			f(slot, v.ctx.Objects[slot])
		}
	}
}

// Presentation holds state that is derived from the simulation for the
// purposes of display. It is never part of a snapshot and never read by the
// simulation.
type Presentation struct {
	CameraPosition     int32
	PrevCameraPosition int32
	HUDVisible         bool
}

// camera moves this fraction of the remaining distance each frame
const cameraSmoothing = 4

// Update the presentation from the view.
func (p *Presentation) Update(v View) {
	b := v.Battle()
	p.PrevCameraPosition = p.CameraPosition
	p.CameraPosition += (b.CurrentScreenPos - p.CameraPosition) / cameraSmoothing
	p.HUDVisible = b.TimeUntilRoundStart == 0 && !b.MatchOver
}
