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

//go:build !assertions

package rewind_test

import (
	"errors"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/rewind"
	"github.com/nightskyengine/rollback/test"
)

// a load older than horizon-1 frames is rejected and never returns the state
// of another frame
func TestHorizonBoundary(t *testing.T) {
	r, err := rewind.NewRewind(horizon)
	test.DemandSuccess(t, err)

	ctx := battle.NewContext(setup())
	test.DemandSuccess(t, r.Save(0, ctx))
	run(t, r, ctx, 100)

	var restored battle.Context

	// the oldest frame still held
	test.ExpectSuccess(t, r.Load(100-(horizon-1), &restored))
	test.ExpectEquality(t, restored.Frame(), 100-(horizon-1))

	// one older is rejected
	err = r.Load(100-horizon, &restored)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrBeyondHorizon))
	_, err = r.Bytes(100 - horizon)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrBeyondHorizon))

	// frames that have not been saved yet
	err = r.Load(101, &restored)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrFuture))

	err = r.Load(-1, &restored)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrNegativeFrame))

	// saving a frame beyond the horizon is also rejected
	err = r.Save(100-horizon, ctx)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrBeyondHorizon))
}

// a frame that was skipped leaves a slot holding an older frame
func TestStaleSlot(t *testing.T) {
	r, err := rewind.NewRewind(horizon)
	test.DemandSuccess(t, err)

	ctx := battle.NewContext(setup())
	test.DemandSuccess(t, r.Save(1, ctx))
	test.DemandSuccess(t, r.Save(3, ctx))

	var restored battle.Context
	err = r.Load(2, &restored)
	test.ExpectSuccess(t, errors.Is(err, rewind.ErrStaleSlot))
	test.ExpectSuccess(t, r.Load(1, &restored))
}
