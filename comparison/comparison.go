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

package comparison

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/snapshot"
)

// ErrQuit is returned when stepping a comparison that has ended.
var ErrQuit = errors.New("comparison: quit")

// Inputs returns the inputs for a frame.
type Inputs func(frame int) [input.NumPlayers]input.Value

// Result of a comparison run.
type Result struct {
	// the number of frames compared
	Frames int

	// the first frame where the checksums differed. zero if there was no
	// difference
	FirstMismatch int

	// the two checksums at the first mismatch
	Main       uint64
	Comparison uint64
}

func (r Result) String() string {
	if r.FirstMismatch == 0 {
		return fmt.Sprintf("%d frames: no differences", r.Frames)
	}
	return fmt.Sprintf("%d frames: first difference at frame %d (%016x and %016x)", r.Frames, r.FirstMismatch, r.Main, r.Comparison)
}

// request sent to the comparison goroutine
type request struct {
	inputs [input.NumPlayers]input.Value
}

// response from the comparison goroutine
type response struct {
	frame int
	hash  uint64
}

// Comparison type runs a parallel simulation with the intention of comparing
// the output with the main simulation.
type Comparison struct {
	// the main simulation
	main *battle.Context

	// buffer used to encode the main simulation
	buf []byte

	step chan request
	done chan response
	quit chan bool

	// closed when the comparison goroutine stops accepting requests
	stopped chan struct{}

	isRunning atomic.Bool

	result Result
}

// NewComparison is the preferred method of initialisation for the Comparison
// type. The comparison goroutine is started immediately and runs until Quit()
// is called.
func NewComparison(setup battle.Setup) *Comparison {
	cmp := &Comparison{
		main: battle.NewContext(setup),
		buf:  make([]byte, snapshot.Size),
		step: make(chan request),
		done: make(chan response),
		quit: make(chan bool, 1),

		stopped: make(chan struct{}),
	}
	cmp.isRunning.Store(true)

	// the comparison simulation is private to the goroutine
	go func(ctx *battle.Context) {
		buf := make([]byte, snapshot.Size)
		for {
			select {
			case <-cmp.quit:
				cmp.isRunning.Store(false)
				close(cmp.stopped)
				close(cmp.done)
				return
			case req := <-cmp.step:
				ctx.Advance(req.inputs)
				_ = snapshot.EncodeInto(buf, ctx)
				cmp.done <- response{frame: ctx.Frame(), hash: digest.Checksum(buf)}
			}
		}
	}(battle.NewContext(setup))

	return cmp
}

// IsRunning returns true if the comparison goroutine has not quit.
func (cmp *Comparison) IsRunning() bool {
	return cmp.isRunning.Load()
}

// Quit ends the comparison goroutine and waits for it to finish. Quit must
// not be called more than once.
func (cmp *Comparison) Quit() {
	cmp.quit <- true
	for range cmp.done {
	}
}

// Frame returns the frame of the main simulation.
func (cmp *Comparison) Frame() int {
	return cmp.main.Frame()
}

// Result returns the result of the comparison so far.
func (cmp *Comparison) Result() Result {
	return cmp.result
}

// Step both simulations with the same inputs. Returns true if the checksums of
// the new frame are the same.
func (cmp *Comparison) Step(inputs [input.NumPlayers]input.Value) (bool, error) {
	if !cmp.IsRunning() {
		return false, ErrQuit
	}

	// the comparison simulation runs at the same time as the main simulation.
	// the goroutine may quit at any time before it takes the request
	select {
	case cmp.step <- request{inputs: inputs}:
	case <-cmp.stopped:
		return false, ErrQuit
	}

	cmp.main.Advance(inputs)
	if err := snapshot.EncodeInto(cmp.buf, cmp.main); err != nil {
		return false, fmt.Errorf("comparison: %w", err)
	}
	hash := digest.Checksum(cmp.buf)

	resp, ok := <-cmp.done
	if !ok {
		return false, ErrQuit
	}
	if resp.frame != cmp.main.Frame() {
		return false, fmt.Errorf("comparison: simulations out of step (%d and %d)", cmp.main.Frame(), resp.frame)
	}

	cmp.result.Frames++

	match := hash == resp.hash
	if !match && cmp.result.FirstMismatch == 0 {
		cmp.result.FirstMismatch = resp.frame
		cmp.result.Main = hash
		cmp.result.Comparison = resp.hash
	}

	return match, nil
}

// Run the comparison for the number of frames. The run stops early at the
// first difference.
func (cmp *Comparison) Run(frames int, inputs Inputs) (Result, error) {
	for range frames {
		match, err := cmp.Step(inputs(cmp.main.Frame() + 1))
		if err != nil {
			return cmp.result, err
		}
		if !match {
			break
		}
	}
	return cmp.result, nil
}
