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

package digest

import "fmt"

// Source of snapshots for frames that have no local checksum. The rewind
// history satisfies this interface.
type Source interface {
	Bytes(frame int) ([]byte, error)
}

// Result of comparing the local and peer checksums for a frame.
type Result struct {
	Frame  int
	Local  uint64
	Remote uint64
	Match  bool

	// false if there was no local checksum for the frame and the snapshot was
	// no longer available. Local and Match are not meaningful in this case
	Verifiable bool
}

func (r Result) String() string {
	if !r.Verifiable {
		return fmt.Sprintf("frame %d: unverifiable", r.Frame)
	}
	if r.Match {
		return fmt.Sprintf("frame %d: %016x", r.Frame, r.Local)
	}
	return fmt.Sprintf("frame %d: local %016x remote %016x", r.Frame, r.Local, r.Remote)
}

type record struct {
	frame int
	hash  uint64
}

// Validator compares local checksums with checksums received from a peer.
type Validator struct {
	history []record
	pending []record

	// pending checksums dropped because the queue was full
	dropped int
}

// NewValidator is the preferred method of initialisation for the Validator
// type. The history argument is the number of local checksums kept and also
// bounds the number of peer checksums waiting for comparison.
func NewValidator(history int) *Validator {
	history = max(history, 1)
	v := &Validator{
		history: make([]record, history),
		pending: make([]record, 0, history),
	}
	for i := range v.history {
		v.history[i].frame = -1
	}
	return v
}

// Record the local checksum for a frame. Recording a frame again replaces the
// earlier checksum. This happens when a frame is resimulated after a
// rollback.
func (v *Validator) Record(frame int, hash uint64) {
	v.history[frame%len(v.history)] = record{frame: frame, hash: hash}
}

// Local returns the recorded checksum for the frame.
func (v *Validator) Local(frame int) (uint64, bool) {
	if frame < 0 {
		return 0, false
	}
	r := v.history[frame%len(v.history)]
	if r.frame != frame {
		return 0, false
	}
	return r.hash, true
}

// AddPeer queues a peer checksum for comparison. If the queue is full the
// oldest queued checksum is dropped.
func (v *Validator) AddPeer(frame int, hash uint64) {
	if len(v.pending) == cap(v.pending) {
		v.pending = append(v.pending[:0], v.pending[1:]...)
		v.dropped++
	}
	v.pending = append(v.pending, record{frame: frame, hash: hash})
}

// Pending returns the number of peer checksums waiting for comparison.
func (v *Validator) Pending() int {
	return len(v.pending)
}

// Dropped returns the number of peer checksums that were never compared
// because the queue was full.
func (v *Validator) Dropped() int {
	return v.dropped
}

// Verify compares the queued peer checksums for every frame up to and
// including confirmedThrough. Peer checksums for later frames stay queued.
//
// If there is no local checksum for a frame the snapshot is requested from the
// Source and the checksum computed from that. The Source can be nil.
func (v *Validator) Verify(confirmedThrough int, src Source) []Result {
	var results []Result

	keep := v.pending[:0]
	for _, p := range v.pending {
		if p.frame > confirmedThrough {
			keep = append(keep, p)
			continue
		}

		r := Result{Frame: p.frame, Remote: p.hash}
		if h, ok := v.Local(p.frame); ok {
			r.Local = h
			r.Verifiable = true
		} else if src != nil {
			if b, err := src.Bytes(p.frame); err == nil {
				r.Local = Checksum(b)
				r.Verifiable = true
			}
		}
		r.Match = r.Verifiable && r.Local == r.Remote
		results = append(results, r)
	}
	v.pending = keep

	return results
}
