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

package battle_test

import (
	"errors"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/test"
)

func TestIntro(t *testing.T) {
	ctx := battle.NewContext(battle.Setup{RoundFormat: battle.FirstToTwo, RoundTime: 1})
	test.ExpectEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroSide0)
	test.ExpectEquality(t, ctx.Battle.CurrentSequenceTime, int32(0))

	advance(ctx, 1, 0, 0)
	test.ExpectEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroSide0)
	test.ExpectEquality(t, ctx.Battle.CurrentSequenceTime, int32(1))

	advance(ctx, battle.IntroLength-1, 0, 0)
	test.ExpectEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroSide1)
	test.ExpectEquality(t, ctx.Battle.CurrentSequenceTime, int32(0))

	// both intros are over when the players gain control
	advance(ctx, battle.RoundStartDelay-battle.IntroLength, 0, 0)
	test.ExpectEquality(t, ctx.Battle.TimeUntilRoundStart, int32(0))
	test.ExpectEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroNone)
	test.ExpectEquality(t, ctx.Battle.CurrentSequenceTime, int32(-1))

	// there is no intro before the second round
	for ctx.Battle.RoundCount == 0 || ctx.Battle.PauseTimer > 0 {
		advance(ctx, 1, 0, 0)
	}
	test.DemandEquality(t, ctx.Battle.TimeUntilRoundStart, int32(battle.RoundStartDelay))
	advance(ctx, 1, 0, 0)
	test.ExpectEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroNone)
	test.ExpectEquality(t, ctx.Battle.CurrentSequenceTime, int32(-1))
}

// counter counts the frames it is called on
type counter struct {
	name string
}

func (c counter) ExtensionName() string {
	return c.name
}

func (c counter) Call(_ *battle.Context, state *battle.ExtensionState) {
	state[0]++
}

func TestExtensions(t *testing.T) {
	ctx := battle.NewContext(battle.DefaultSetup())
	test.ExpectEquality(t, len(ctx.ExtensionNames()), 0)

	test.DemandSuccess(t, ctx.AddExtension(battle.FirstHit{Meter: 100}))
	err := ctx.AddExtension(battle.FirstHit{Meter: 200})
	test.ExpectSuccess(t, errors.Is(err, battle.ErrDuplicateExtension))

	for _, n := range []string{"a", "b", "c"} {
		test.DemandSuccess(t, ctx.AddExtension(counter{name: n}))
	}
	err = ctx.AddExtension(counter{name: "d"})
	test.ExpectSuccess(t, errors.Is(err, battle.ErrExtensionsFull))

	names := ctx.ExtensionNames()
	test.DemandEquality(t, len(names), battle.MaxExtensions)
	test.ExpectEquality(t, names[0], "firsthit")
	test.ExpectEquality(t, names[3], "c")

	// extensions are not called before the players have control
	advance(ctx, battle.RoundStartDelay, 0, 0)
	test.ExpectEquality(t, ctx.ExtensionData[1][0], 0)

	advance(ctx, 5, 0, 0)
	test.ExpectEquality(t, ctx.ExtensionData[1][0], 5)
	test.ExpectEquality(t, ctx.ExtensionData[3][0], 5)

	test.DemandSuccess(t, ctx.CallExtension("B"))
	test.ExpectEquality(t, ctx.ExtensionData[2][0], 6)
	test.ExpectEquality(t, ctx.ExtensionData[1][0], 5)

	err = ctx.CallExtension("nothing")
	test.ExpectSuccess(t, errors.Is(err, battle.ErrUnknownExtension))

	// a reset clears the state but keeps the extensions
	ctx.Reset(battle.DefaultSetup())
	test.ExpectEquality(t, len(ctx.ExtensionNames()), battle.MaxExtensions)
	test.ExpectEquality(t, ctx.ExtensionData[1], battle.ExtensionState{})
}

func TestLookupExtension(t *testing.T) {
	e, err := battle.LookupExtension("FirstHit")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, e.ExtensionName(), "firsthit")

	_, err = battle.LookupExtension("nothing")
	test.ExpectSuccess(t, errors.Is(err, battle.ErrUnknownExtension))
}

func TestFirstHit(t *testing.T) {
	const bonus = 1000

	plain := started(t, battle.DefaultSetup())
	closeRange(plain)

	ctx := battle.NewContext(battle.DefaultSetup())
	test.DemandSuccess(t, ctx.AddExtension(battle.FirstHit{Meter: bonus}))
	advance(ctx, battle.RoundStartDelay, 0, 0)
	closeRange(ctx)

	_, ok := battle.FirstHitSide(ctx.ExtensionData[0])
	test.ExpectSuccess(t, !ok)

	advance(plain, 6, input.A, 0)
	advance(ctx, 6, input.A, 0)

	side, ok := battle.FirstHitSide(ctx.ExtensionData[0])
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, side, 0)
	test.ExpectEquality(t, ctx.Battle.Meter[0], plain.Battle.Meter[0]+bonus)
	test.ExpectEquality(t, ctx.Battle.Meter[1], plain.Battle.Meter[1])

	// later hits in the same round give nothing extra
	advance(plain, 40, 0, 0)
	advance(ctx, 40, 0, 0)
	advance(plain, 6, input.A, 0)
	advance(ctx, 6, input.A, 0)
	test.ExpectEquality(t, ctx.Battle.Meter[0], plain.Battle.Meter[0]+bonus)
}
