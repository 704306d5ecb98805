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

package rewind

import (
	"errors"
	"fmt"

	"github.com/nightskyengine/rollback/assert"
	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/snapshot"
)

// Sentinel errors for requests that the rewind history cannot satisfy.
var (
	ErrBeyondHorizon = errors.New("frame beyond rollback horizon")
	ErrStaleSlot     = errors.New("rewind slot holds a different frame")
	ErrFuture        = errors.New("frame has not been saved")
	ErrNegativeFrame = errors.New("negative frame number")
)

// entry in the circular array. frame is -1 when the entry has never been used
type entry struct {
	frame int
	data  []byte
}

// Rewind contains the snapshots of the most recent frames of the simulation.
type Rewind struct {
	entries []entry

	// most recently saved frame. -1 if nothing has been saved
	latest int

	// the number of times a frame older than latest has been saved
	resaves int
}

// NewRewind is the preferred method of initialisation for the Rewind type. All
// memory used by the rewind history is allocated here.
func NewRewind(horizon int) (*Rewind, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("rewind: horizon must be at least one (%d)", horizon)
	}

	r := &Rewind{
		entries: make([]entry, horizon),
	}
	for i := range r.entries {
		r.entries[i].data = make([]byte, snapshot.Size)
	}
	r.Reset()

	return r, nil
}

// Reset forgets every saved frame. The allocated memory is kept.
func (r *Rewind) Reset() {
	for i := range r.entries {
		r.entries[i].frame = -1
	}
	r.latest = -1
	r.resaves = 0
}

// Horizon returns the number of frames held.
func (r *Rewind) Horizon() int {
	return len(r.entries)
}

// Latest returns the most recently saved frame. Returns -1 if no frame has been
// saved.
func (r *Rewind) Latest() int {
	return r.latest
}

// Save the context as the state for the frame. The frame is normally one after
// the latest frame. Saving an older frame is allowed while it is within the
// horizon and is how a resimulated frame replaces the original.
func (r *Rewind) Save(frame int, ctx *battle.Context) error {
	if frame < 0 {
		return fmt.Errorf("rewind: save: %w: %d", ErrNegativeFrame, frame)
	}
	if r.latest-frame > len(r.entries)-1 {
		return r.fault(fmt.Errorf("rewind: save: %w: frame %d (latest %d, horizon %d)", ErrBeyondHorizon, frame, r.latest, len(r.entries)))
	}

	e := &r.entries[frame%len(r.entries)]
	if err := snapshot.EncodeInto(e.data, ctx); err != nil {
		return r.fault(fmt.Errorf("rewind: save: %w", err))
	}
	e.frame = frame

	if frame > r.latest {
		r.latest = frame
	} else {
		r.resaves++
	}

	return nil
}

// find returns the entry for the frame after checking the request is valid
func (r *Rewind) find(frame int) (*entry, error) {
	if frame < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}
	if frame > r.latest {
		return nil, fmt.Errorf("%w: frame %d (latest %d)", ErrFuture, frame, r.latest)
	}
	if r.latest-frame > len(r.entries)-1 {
		return nil, fmt.Errorf("%w: frame %d (latest %d, horizon %d)", ErrBeyondHorizon, frame, r.latest, len(r.entries))
	}
	e := &r.entries[frame%len(r.entries)]
	if e.frame != frame {
		return nil, fmt.Errorf("%w: frame %d (slot holds %d)", ErrStaleSlot, frame, e.frame)
	}
	return e, nil
}

// Load the state for the frame into the context.
func (r *Rewind) Load(frame int, ctx *battle.Context) error {
	e, err := r.find(frame)
	if err != nil {
		return r.fault(fmt.Errorf("rewind: load: %w", err))
	}
	if err := snapshot.Decode(e.data, ctx); err != nil {
		return r.fault(fmt.Errorf("rewind: load: %w", err))
	}
	return nil
}

// Bytes returns the snapshot of the frame. The returned slice is owned by the
// rewind history and must not be modified or kept.
func (r *Rewind) Bytes(frame int) ([]byte, error) {
	e, err := r.find(frame)
	if err != nil {
		return nil, fmt.Errorf("rewind: bytes: %w", err)
	}
	return e.data, nil
}

// Contains returns true if the frame can be loaded.
func (r *Rewind) Contains(frame int) bool {
	_, err := r.find(frame)
	return err == nil
}

// fault is called for requests that indicate a bug in the caller's
// bookkeeping
func (r *Rewind) fault(err error) error {
	if assert.Enabled {
		panic(err)
	}
	return err
}
