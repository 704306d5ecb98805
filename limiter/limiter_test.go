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

package limiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nightskyengine/rollback/limiter"
	"github.com/nightskyengine/rollback/test"
)

func TestInvalidLimit(t *testing.T) {
	_, err := limiter.NewFPSLimiter(0)
	test.ExpectFailure(t, err)
}

func TestWait(t *testing.T) {
	const fps = 100

	lim, err := limiter.NewFPSLimiter(fps)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	start := time.Now()
	for range 20 {
		lim.Wait()
	}
	elapsed := time.Since(start)

	// twenty ticks at 100fps is about 200ms. the first tick is immediate and
	// timing on a busy machine is poor so the bounds are generous
	test.ExpectSuccess(t, elapsed >= 150*time.Millisecond, elapsed)
	test.ExpectSuccess(t, elapsed < time.Second, elapsed)
}

func TestWaitContext(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(1)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	// the first tick is available immediately
	test.DemandSuccess(t, lim.WaitContext(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = lim.WaitContext(ctx)
	test.ExpectSuccess(t, errors.Is(err, context.DeadlineExceeded))
	test.ExpectSuccess(t, !lim.HasWaited())
}
