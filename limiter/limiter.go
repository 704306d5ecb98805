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

package limiter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// this is a rough attempt at rate limiting. probably only any good if base
// performance of the machine is well above the required rate.

// FpsLimiter will trigger every frames per second
type FpsLimiter struct {
	secondsPerFrame atomic.Int64

	tick chan bool
	quit chan bool

	// the number of ticks taken
	ticks atomic.Int64
	start time.Time
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type
func NewFPSLimiter(framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		tick:  make(chan bool),
		quit:  make(chan bool),
		start: time.Now(),
	}

	if err := lim.SetLimit(framesPerSecond); err != nil {
		return nil, err
	}

	// run ticker concurrently
	go func() {
		adjusted := time.Duration(lim.secondsPerFrame.Load())
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
				lim.ticks.Add(1)
			case <-lim.quit:
				return
			}

			spf := time.Duration(lim.secondsPerFrame.Load())
			time.Sleep(max(adjusted, 0))
			nt := time.Now()

			// correct for the time lost by sleep and by waiting for the tick
			// to be taken. the correction is bounded so that a long pause
			// does not cause a burst of ticks
			adjusted -= nt.Sub(t) - spf
			adjusted = max(adjusted, -spf)
			adjusted = min(adjusted, spf)
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits
func (lim *FpsLimiter) SetLimit(framesPerSecond int) error {
	if framesPerSecond < 1 {
		return fmt.Errorf("limiter: frames per second must be at least one (%d)", framesPerSecond)
	}
	lim.secondsPerFrame.Store(int64(time.Second / time.Duration(framesPerSecond)))
	return nil
}

// Stop the limiter. Wait() must not be called after Stop().
func (lim *FpsLimiter) Stop() {
	close(lim.quit)
}

// Wait will block until trigger
func (lim *FpsLimiter) Wait() {
	<-lim.tick
}

// WaitContext blocks until the trigger or until the context is done.
func (lim *FpsLimiter) WaitContext(ctx context.Context) error {
	select {
	case <-lim.tick:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen
func (lim *FpsLimiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}

// Measured returns the average rate since the limiter was created.
func (lim *FpsLimiter) Measured() float64 {
	elapsed := time.Since(lim.start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(lim.ticks.Load()) / elapsed
}
