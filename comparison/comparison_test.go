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

package comparison_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/comparison"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/random"
	"github.com/nightskyengine/rollback/test"
)

func TestComparison(t *testing.T) {
	cmp := comparison.NewComparison(battle.DefaultSetup())
	defer cmp.Quit()

	rnd := random.NewRandom(99)
	res, err := cmp.Run(600, func(_ int) [input.NumPlayers]input.Value {
		return [input.NumPlayers]input.Value{
			input.Value(rnd.Next()) & input.Mask,
			input.Value(rnd.Next()) & input.Mask,
		}
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, res.Frames, 600)
	test.ExpectEquality(t, res.FirstMismatch, 0)
	test.ExpectEquality(t, cmp.Frame(), 600)
	test.ExpectEquality(t, res.String(), "600 frames: no differences")
}

func TestQuit(t *testing.T) {
	cmp := comparison.NewComparison(battle.DefaultSetup())

	match, err := cmp.Step([input.NumPlayers]input.Value{input.Right, input.Left})
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, match)

	cmp.Quit()

	_, err = cmp.Step([input.NumPlayers]input.Value{})
	test.ExpectSuccess(t, errors.Is(err, comparison.ErrQuit))
	test.ExpectSuccess(t, !cmp.IsRunning())
}

// a comparison quit from another goroutine ends any stepping in progress
func TestQuitWhileStepping(t *testing.T) {
	for range 50 {
		cmp := comparison.NewComparison(battle.DefaultSetup())

		stepped := make(chan struct{})
		ended := make(chan error, 1)
		go func() {
			var once bool
			for {
				_, err := cmp.Step([input.NumPlayers]input.Value{input.Right, input.A})
				if !once {
					once = true
					close(stepped)
				}
				if err != nil {
					ended <- err
					return
				}
			}
		}()

		<-stepped
		cmp.Quit()

		select {
		case err := <-ended:
			test.ExpectSuccess(t, errors.Is(err, comparison.ErrQuit))
		case <-time.After(5 * time.Second):
			t.Fatalf("step did not return after quit")
		}
	}
}
