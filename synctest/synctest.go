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

package synctest

import (
	"errors"
	"fmt"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/rewind"
)

// ErrMismatch is returned when a resimulated frame has a different checksum to
// the original simulation of the frame.
var ErrMismatch = errors.New("synctest: checksum mismatch")

// SyncTest rolls back and resimulates on every step.
type SyncTest struct {
	ctx       *battle.Context
	rewind    *rewind.Rewind
	inputs    *input.Store
	checksums *digest.Validator

	checkDistance int

	// the number of frames resimulated
	resimulated int
}

// NewSyncTest is the preferred method of initialisation for the SyncTest type.
// The check distance is the number of frames rolled back on every step and
// must be less than the horizon.
func NewSyncTest(setup battle.Setup, horizon int, checkDistance int) (*SyncTest, error) {
	if checkDistance < 1 || checkDistance >= horizon {
		return nil, fmt.Errorf("synctest: check distance must be between 1 and %d (%d)", horizon-1, checkDistance)
	}

	st := &SyncTest{
		ctx:           battle.NewContext(setup),
		checksums:     digest.NewValidator(horizon),
		checkDistance: checkDistance,
	}

	var err error

	st.rewind, err = rewind.NewRewind(horizon)
	if err != nil {
		return nil, fmt.Errorf("synctest: %w", err)
	}
	st.inputs, err = input.NewStore(horizon)
	if err != nil {
		return nil, fmt.Errorf("synctest: %w", err)
	}

	if err := st.save(0); err != nil {
		return nil, err
	}

	return st, nil
}

// Frame returns the current frame.
func (st *SyncTest) Frame() int {
	return st.ctx.Frame()
}

// Resimulated returns the number of frames that have been resimulated.
func (st *SyncTest) Resimulated() int {
	return st.resimulated
}

// View of the current state.
func (st *SyncTest) View() battle.View {
	return st.ctx.View()
}

func (st *SyncTest) save(frame int) error {
	if err := st.rewind.Save(frame, st.ctx); err != nil {
		return fmt.Errorf("synctest: %w", err)
	}
	b, err := st.rewind.Bytes(frame)
	if err != nil {
		return fmt.Errorf("synctest: %w", err)
	}
	st.checksums.Record(frame, digest.Checksum(b))
	return nil
}

func (st *SyncTest) advance(frame int) error {
	pair, err := st.inputs.Pair(frame)
	if err != nil {
		return fmt.Errorf("synctest: %w", err)
	}
	st.ctx.Advance(pair)
	return nil
}

// Step advances the simulation with the inputs, then rolls back and
// resimulates. Returns ErrMismatch if any resimulated frame differs from the
// original.
func (st *SyncTest) Step(inputs [input.NumPlayers]input.Value) error {
	frame := st.ctx.Frame() + 1

	for p, v := range inputs {
		if err := st.inputs.RecordLocal(frame, p, v); err != nil {
			return fmt.Errorf("synctest: %w", err)
		}
	}

	if err := st.advance(frame); err != nil {
		return err
	}
	if err := st.save(frame); err != nil {
		return err
	}

	if frame < st.checkDistance {
		return nil
	}

	from := frame - st.checkDistance
	if err := st.rewind.Load(from, st.ctx); err != nil {
		return fmt.Errorf("synctest: %w", err)
	}

	for f := from + 1; f <= frame; f++ {
		if err := st.advance(f); err != nil {
			return err
		}
		st.resimulated++

		// the resimulated frame is compared with the original by treating
		// the original as a peer checksum
		original, _ := st.checksums.Local(f)
		if err := st.save(f); err != nil {
			return err
		}
		st.checksums.AddPeer(f, original)
		for _, r := range st.checksums.Verify(f, nil) {
			if !r.Match {
				return fmt.Errorf("%w: frame %d (original %016x, resimulated %016x)", ErrMismatch, r.Frame, r.Remote, r.Local)
			}
		}
	}

	return nil
}

// Run steps the synctest for the number of frames with inputs from the
// function.
func (st *SyncTest) Run(frames int, inputs func(frame int) [input.NumPlayers]input.Value) error {
	for range frames {
		if err := st.Step(inputs(st.ctx.Frame() + 1)); err != nil {
			return err
		}
	}
	return nil
}
