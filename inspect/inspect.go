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

// Package inspect writes the simulation state in forms suitable for a person
// to read. It is used when investigating a desync.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/nightskyengine/rollback/battle"
)

// object is an active object and the slot it occupies
type object struct {
	Slot   int
	Object battle.SimObject
}

// state is the part of the simulation that is written by Dump(). inactive
// object slots are left out
type state struct {
	Battle  battle.BattleState
	Players [battle.MaxPlayerObjects]battle.PlayerState
	Objects []object
}

func collect(v battle.View) *state {
	s := &state{Battle: v.Battle()}
	for p := range s.Players {
		s.Players[p] = v.Player(p)
	}
	v.ActiveObjects(func(slot int, o battle.SimObject) {
		s.Objects = append(s.Objects, object{Slot: slot, Object: o})
	})
	return s
}

// Dump writes a graphviz description of the state to w.
func Dump(w io.Writer, v battle.View) error {
	if !v.Valid() {
		return fmt.Errorf("inspect: invalid view")
	}
	memviz.Map(w, collect(v))
	return nil
}

// Summary writes a short text description of the state to w.
func Summary(w io.Writer, v battle.View) error {
	if !v.Valid() {
		return fmt.Errorf("inspect: invalid view")
	}

	s := collect(v)
	b := &strings.Builder{}

	fmt.Fprintf(b, "frame %d: round %d (%s) timer %d\n", s.Battle.FrameNumber, s.Battle.RoundCount, s.Battle.RoundFormat, s.Battle.RoundTimer)
	for side := range battle.NumSides {
		ps, o := v.MainPlayer(side)
		fmt.Fprintf(b, "side %d: health %d/%d meter %d rounds %d at (%d, %d) state %d\n",
			side, ps.Health, ps.MaxHealth, s.Battle.Meter[side], s.Battle.RoundsWon[side], o.PosX, o.PosY, o.StateID)
	}
	fmt.Fprintf(b, "active objects: %d\n", len(s.Objects))

	_, err := io.WriteString(w, b.String())
	return err
}
