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

package input

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Store.
var (
	ErrOutOfWindow      = errors.New("frame outside of input window")
	ErrConfirmedChanged = errors.New("confirmed input cannot change")
	ErrInvalidPlayer    = errors.New("invalid player index")
	ErrInvalidFrame     = errors.New("invalid frame number")
	ErrTooFarAhead      = errors.New("remote input too far ahead")
	ErrWindowOverrun    = errors.New("input still needed would leave the window")
)

type record struct {
	value Value

	// authoritative values are either local input or confirmed remote input
	authoritative bool

	// an unconfirmed value recorded explicitly with RecordRemote()
	predicted bool
}

type entry struct {
	frame   int
	players [NumPlayers]record

	// the values given by Pair() when the frame was last simulated
	simulated bool
	used      [NumPlayers]Value

	divergent bool
}

func (e *entry) reset(frame int) {
	*e = entry{frame: frame}
}

// Store holds the input values for a window of frames. The window is twice
// the rollback horizon so that remote input from a peer that is ahead of the
// local simulation has somewhere to go.
type Store struct {
	entries []entry

	// the most recent frame written to the store
	newest int

	// the highest frame given to Pair()
	paired int

	// highest frame for which every frame up to and including it has an
	// authoritative value, per player
	confirmed [NumPlayers]int

	// the most recent authoritative value to fall out of the window, per
	// player. used for predictions when no authoritative value remains in the
	// window
	floorFrame [NumPlayers]int
	floorValue [NumPlayers]Value
}

// NewStore is the preferred method of initialisation for the Store type.
func NewStore(horizon int) (*Store, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("input: horizon must be at least one (%d)", horizon)
	}
	s := &Store{
		entries: make([]entry, horizon*2),
	}
	for i := range s.entries {
		s.entries[i].reset(-1)
	}
	return s, nil
}

// Capacity returns the number of frames held by the store.
func (s *Store) Capacity() int {
	return len(s.entries)
}

func (s *Store) oldest() int {
	return s.newest - len(s.entries) + 1
}

// find returns the entry for the frame if it is in the window. Returns nil if
// the frame has not been written to.
func (s *Store) find(frame int) *entry {
	if frame < 1 || frame < s.oldest() || frame > s.newest {
		return nil
	}
	e := &s.entries[frame%len(s.entries)]
	if e.frame != frame {
		return nil
	}
	return e
}

// touch returns the entry for the frame, creating it if necessary. Creating an
// entry beyond the newest frame moves the window forward.
func (s *Store) touch(frame int) (*entry, error) {
	if frame < 1 {
		return nil, fmt.Errorf("input: %w: %d", ErrInvalidFrame, frame)
	}
	if frame < s.oldest() {
		return nil, fmt.Errorf("input: %w: frame %d (window starts at %d)", ErrOutOfWindow, frame, s.oldest())
	}

	if frame > s.newest {
		if err := s.release(frame); err != nil {
			return nil, err
		}

		// every slot is visited at most once however far the window moves
		for f := max(s.newest+1, frame-len(s.entries)+1); f <= frame; f++ {
			e := &s.entries[f%len(s.entries)]
			s.evict(e)
			e.reset(f)
		}
		s.newest = frame
	}

	e := &s.entries[frame%len(s.entries)]
	if e.frame != frame {
		e.reset(frame)
	}
	return e, nil
}

// release checks that moving the window forward so that frame is the newest
// frame does not discard input that is still needed. An entry is still needed
// if it is divergent or if it is not yet confirmed for every player.
func (s *Store) release(frame int) error {
	ct := s.ConfirmedThrough()
	for f := max(s.newest+1, frame-len(s.entries)+1); f <= frame; f++ {
		e := &s.entries[f%len(s.entries)]
		if e.frame < 1 {
			continue
		}
		if e.divergent {
			return fmt.Errorf("input: %w: frame %d is waiting to be resimulated (writing frame %d)", ErrWindowOverrun, e.frame, frame)
		}
		if e.frame > ct {
			return fmt.Errorf("input: %w: frame %d is not confirmed (writing frame %d)", ErrWindowOverrun, e.frame, frame)
		}
	}
	return nil
}

// Reach returns the highest frame that RecordRemote() accepts. A peer
// following the same stall rule with the same horizon never sends input
// beyond this frame.
func (s *Store) Reach() int {
	return s.paired + len(s.entries)/2 + 1
}

func (s *Store) evict(e *entry) {
	if e.frame < 1 {
		return
	}
	for p := range e.players {
		if e.players[p].authoritative && e.frame > s.floorFrame[p] {
			s.floorFrame[p] = e.frame
			s.floorValue[p] = e.players[p].value
		}
	}
}

func (s *Store) authoritative(frame int, player int) bool {
	e := s.find(frame)
	return e != nil && e.players[player].authoritative
}

// advance the contiguous confirmation count for the player
func (s *Store) advance(player int) {
	for s.authoritative(s.confirmed[player]+1, player) {
		s.confirmed[player]++
	}
}

// setAuthoritative is common to RecordLocal() and RecordRemote() when the
// value is confirmed.
func (s *Store) setAuthoritative(frame int, player int, value Value) error {
	if player < 0 || player >= NumPlayers {
		return fmt.Errorf("input: %w: %d", ErrInvalidPlayer, player)
	}

	e, err := s.touch(frame)
	if err != nil {
		return err
	}

	r := &e.players[player]
	if r.authoritative {
		if r.value != value {
			return fmt.Errorf("input: %w: frame %d player %d (%s to %s)", ErrConfirmedChanged, frame, player, r.value, value)
		}
		return nil
	}

	r.value = value
	r.authoritative = true
	r.predicted = false

	if e.simulated && e.used[player] != value {
		e.divergent = true
	}

	s.advance(player)

	return nil
}

// RecordLocal records the input of a player controlled on this machine. Local
// input is always authoritative.
func (s *Store) RecordLocal(frame int, player int, value Value) error {
	return s.setAuthoritative(frame, player, value)
}

// RecordRemote records the input of a player controlled by the peer. An
// unconfirmed value is a prediction and never replaces a confirmed value. A
// confirmed value that differs from the value used to simulate the frame marks
// the frame as divergent. Frames beyond Reach() are refused with
// ErrTooFarAhead.
func (s *Store) RecordRemote(frame int, player int, value Value, confirmed bool) error {
	if frame > s.Reach() {
		return fmt.Errorf("input: %w: frame %d (reach is %d)", ErrTooFarAhead, frame, s.Reach())
	}

	if confirmed {
		return s.setAuthoritative(frame, player, value)
	}

	if player < 0 || player >= NumPlayers {
		return fmt.Errorf("input: %w: %d", ErrInvalidPlayer, player)
	}

	e, err := s.touch(frame)
	if err != nil {
		return err
	}

	r := &e.players[player]
	if r.authoritative {
		return nil
	}
	r.value = value
	r.predicted = true

	return nil
}

// Predict returns the value that would be used for the player at the frame if
// no authoritative value is available. The prediction is the most recent
// authoritative value for an earlier frame. Zero if there is no such value.
func (s *Store) Predict(frame int, player int) Value {
	for f := frame - 1; f >= max(1, s.oldest()); f-- {
		if e := s.find(f); e != nil && e.players[player].authoritative {
			return e.players[player].value
		}
	}
	if s.floorFrame[player] > 0 && s.floorFrame[player] < frame {
		return s.floorValue[player]
	}
	return 0
}

// Pair returns the values that should be used to simulate the frame. Each
// value is either authoritative, an explicit prediction or a derived
// prediction.
//
// The values are noted as the values used for the frame and any divergence for
// the frame is cleared. Pair() should therefore only be called when the frame
// is actually about to be simulated.
func (s *Store) Pair(frame int) ([NumPlayers]Value, error) {
	var pair [NumPlayers]Value

	e, err := s.touch(frame)
	if err != nil {
		return pair, err
	}

	for p := range pair {
		r := e.players[p]
		if r.authoritative || r.predicted {
			pair[p] = r.value
		} else {
			pair[p] = s.Predict(frame, p)
		}
	}

	e.simulated = true
	e.used = pair
	e.divergent = false
	s.paired = max(s.paired, frame)

	return pair, nil
}

// Used returns the values most recently given by Pair() for the frame.
func (s *Store) Used(frame int) ([NumPlayers]Value, bool) {
	e := s.find(frame)
	if e == nil || !e.simulated {
		return [NumPlayers]Value{}, false
	}
	return e.used, true
}

// FirstDivergentFrame returns the earliest frame in the window that was
// simulated with a value that has since been confirmed as something else.
func (s *Store) FirstDivergentFrame() (int, bool) {
	for f := max(1, s.oldest()); f <= s.newest; f++ {
		if e := s.find(f); e != nil && e.divergent {
			return f, true
		}
	}
	return 0, false
}

// IsConfirmed returns true if every player has an authoritative value for the
// frame.
func (s *Store) IsConfirmed(frame int) bool {
	return frame <= s.ConfirmedThrough()
}

// ConfirmedThrough returns the highest frame for which the inputs of every
// player are authoritative, for that frame and every frame before it.
func (s *Store) ConfirmedThrough() int {
	c := s.confirmed[0]
	for _, f := range s.confirmed[1:] {
		c = min(c, f)
	}
	return c
}
