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

//go:build assertions

package rewind_test

import (
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/rewind"
	"github.com/nightskyengine/rollback/test"
)

func TestHorizonBoundaryPanics(t *testing.T) {
	r, err := rewind.NewRewind(horizon)
	test.DemandSuccess(t, err)

	ctx := battle.NewContext(setup())
	test.DemandSuccess(t, r.Save(0, ctx))
	run(t, r, ctx, 100)

	defer func() {
		test.ExpectFailure(t, recover() == nil)
	}()

	var restored battle.Context
	_ = r.Load(100-horizon, &restored)
	t.Errorf("load beyond the horizon did not panic")
}
