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

package synctest_test

import (
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/random"
	"github.com/nightskyengine/rollback/synctest"
	"github.com/nightskyengine/rollback/test"
)

func TestCheckDistance(t *testing.T) {
	_, err := synctest.NewSyncTest(battle.DefaultSetup(), 8, 0)
	test.ExpectFailure(t, err)
	_, err = synctest.NewSyncTest(battle.DefaultSetup(), 8, 8)
	test.ExpectFailure(t, err)
	_, err = synctest.NewSyncTest(battle.DefaultSetup(), 8, 7)
	test.ExpectSuccess(t, err)
}

func TestSyncTest(t *testing.T) {
	for _, distance := range []int{1, 3, 7} {
		st, err := synctest.NewSyncTest(battle.DefaultSetup(), 8, distance)
		test.DemandSuccess(t, err)

		rnd := random.NewRandom(uint32(distance))
		err = st.Run(500, func(_ int) [input.NumPlayers]input.Value {
			return [input.NumPlayers]input.Value{
				input.Value(rnd.Next()) & input.Mask,
				input.Value(rnd.Next()) & input.Mask,
			}
		})
		test.ExpectSuccess(t, err, distance)
		test.ExpectEquality(t, st.Frame(), 500, distance)
		test.ExpectEquality(t, st.Resimulated(), (500-distance+1)*distance, distance)
	}
}

// synctest agrees with a plain simulation given the same inputs
func TestSyncTestFinalState(t *testing.T) {
	setup := battle.Setup{RoundFormat: battle.ThreeVsThree, RoundTime: 30, Seed: 5}

	st, err := synctest.NewSyncTest(setup, 6, 4)
	test.DemandSuccess(t, err)

	ctx := battle.NewContext(setup)

	inputs := func(frame int) [input.NumPlayers]input.Value {
		return [input.NumPlayers]input.Value{
			input.Value(frame/3) & input.Mask,
			input.Value(frame/5+7) & input.Mask,
		}
	}

	for f := 1; f <= 300; f++ {
		test.DemandSuccess(t, st.Step(inputs(f)))
		ctx.Advance(inputs(f))
	}

	test.ExpectEquality(t, st.View().Battle(), ctx.Battle)
}
