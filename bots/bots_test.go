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

package bots_test

import (
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/bots"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/test"
)

func TestMasher(t *testing.T) {
	a := bots.NewMasher(77)
	b := bots.NewMasher(77)
	c := bots.NewMasher(78)

	var differs bool
	for f := 1; f <= 1000; f++ {
		va := a.LocalInput(f)
		test.ExpectEquality(t, va, b.LocalInput(f), f)
		test.ExpectSuccess(t, !va.Has(input.Left|input.Right), f)
		test.ExpectSuccess(t, !va.Has(input.Up|input.Down), f)
		if va != c.LocalInput(f) {
			differs = true
		}
	}
	test.ExpectSuccess(t, differs)

	var bot bots.Bot = a
	test.ExpectEquality(t, bot.BotID(), "masher")

	// diagnostics are available but are dropped when nobody reads them
	select {
	case d := <-a.Feedback().Diagnostic:
		test.ExpectEquality(t, d.Group, "masher")
	default:
		t.Errorf("expected a diagnostic")
	}
}

func TestChaser(t *testing.T) {
	ctx := battle.NewContext(battle.DefaultSetup())

	var bot bots.Bot = bots.NewChaser(0)

	opponent, _ := ctx.View().MainPlayer(1)
	startHealth := opponent.Health

	// with no view the bot does nothing
	test.ExpectEquality(t, bot.LocalInput(1), input.Value(0))

	for f := 1; f <= 600; f++ {
		bot.Present(ctx.View())
		ctx.Advance([input.NumPlayers]input.Value{bot.LocalInput(f), 0})
	}

	// the opponent has been hurt or has lost a round
	opponent, _ = ctx.View().MainPlayer(1)
	test.ExpectSuccess(t, opponent.Health < startHealth || ctx.Battle.RoundsWon[0] > 0)
}
