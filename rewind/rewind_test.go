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

package rewind_test

import (
	"bytes"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/rewind"
	"github.com/nightskyengine/rollback/snapshot"
	"github.com/nightskyengine/rollback/test"
)

const horizon = 8

// inputs for a frame. varied enough that the simulation does something
// interesting once the round has started
func inputs(frame int) [input.NumPlayers]input.Value {
	a := input.Value(frame*7+frame/5) & input.Mask
	b := input.Value(frame*13+frame/3) & input.Mask
	return [input.NumPlayers]input.Value{a, b}
}

func setup() battle.Setup {
	return battle.Setup{RoundFormat: battle.TwoVsTwo, RoundTime: 60, Seed: 3}
}

// run a context to the frame, saving every frame
func run(t *testing.T, r *rewind.Rewind, ctx *battle.Context, to int) {
	t.Helper()
	for f := ctx.Frame() + 1; f <= to; f++ {
		ctx.Advance(inputs(f))
		test.DemandSuccess(t, r.Save(f, ctx))
	}
}

func TestSaveLoad(t *testing.T) {
	r, err := rewind.NewRewind(horizon)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Horizon(), horizon)
	test.ExpectEquality(t, r.Latest(), -1)

	ctx := battle.NewContext(setup())
	test.DemandSuccess(t, r.Save(0, ctx))
	run(t, r, ctx, 120)
	test.ExpectEquality(t, r.Latest(), 120)

	want := *ctx

	// loading the latest frame gives the current state
	var restored battle.Context
	test.DemandSuccess(t, r.Load(120, &restored))
	test.ExpectSuccess(t, restored == want)

	b, err := r.Bytes(120)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(b, snapshot.Encode(&want)))
}

// advancing to a frame directly is the same as advancing, rolling back to any
// frame within the horizon, and advancing again
func TestRollbackEquivalence(t *testing.T) {
	const target = 250

	direct := battle.NewContext(setup())
	for f := 1; f <= target; f++ {
		direct.Advance(inputs(f))
	}

	for back := 0; back < horizon; back++ {
		r, err := rewind.NewRewind(horizon)
		test.DemandSuccess(t, err)

		ctx := battle.NewContext(setup())
		run(t, r, ctx, target)

		from := target - back
		test.DemandSuccess(t, r.Load(from, ctx))
		test.DemandEquality(t, ctx.Frame(), from)

		// resimulate, resaving the frames
		for f := from + 1; f <= target; f++ {
			ctx.Advance(inputs(f))
			test.DemandSuccess(t, r.Save(f, ctx))
		}

		test.ExpectSuccess(t, *ctx == *direct, back)
		test.ExpectEquality(t, r.Latest(), target)
	}
}

func TestTimeline(t *testing.T) {
	r, err := rewind.NewRewind(horizon)
	test.DemandSuccess(t, err)

	tl := r.GetTimeline()
	test.ExpectEquality(t, tl.Len(), 0)
	test.ExpectEquality(t, tl.String(), "empty")

	ctx := battle.NewContext(setup())
	test.DemandSuccess(t, r.Save(0, ctx))
	run(t, r, ctx, 3)
	tl = r.GetTimeline()
	test.ExpectEquality(t, tl.AvailableStart, 0)
	test.ExpectEquality(t, tl.AvailableEnd, 3)

	run(t, r, ctx, 50)
	tl = r.GetTimeline()
	test.ExpectEquality(t, tl.AvailableStart, 50-horizon+1)
	test.ExpectEquality(t, tl.AvailableEnd, 50)
	test.ExpectEquality(t, tl.Len(), horizon)

	// resaving a frame is counted
	test.DemandSuccess(t, r.Load(48, ctx))
	run(t, r, ctx, 50)
	test.ExpectEquality(t, r.GetTimeline().Resaves, 2)

	r.Reset()
	test.ExpectEquality(t, r.Latest(), -1)
	test.ExpectFailure(t, r.Contains(50))
}

func TestInvalidHorizon(t *testing.T) {
	_, err := rewind.NewRewind(0)
	test.ExpectFailure(t, err)
}
