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

// Package loopback is an in-memory session.Session. A pair of endpoints is
// connected to each other and messages sent by one endpoint are received by
// the other after a fixed number of polls.
//
// Useful for testing the frame driver with latency but without a network, and
// for running both sides of a match in the same process.
package loopback

import (
	"sync"
	"time"

	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/session"
)

// frame period used to convert the delay into a round trip time
const tick = time.Second / 60

type message struct {
	// the message is delivered when the receiving endpoint has polled this
	// many times
	due int

	input    session.ConfirmedInput
	checksum session.PeerChecksum
	isInput  bool
}

// link is shared by both endpoints of a pair
type link struct {
	crit         sync.Mutex
	delay        int
	disconnected bool
}

// Endpoint is one end of a loopback pair. It implements the session.Session
// interface.
type Endpoint struct {
	link   *link
	peer   *Endpoint
	player int

	// messages waiting to be polled and the number of polls made. protected
	// by the link's critical section
	inbox []message
	polls int
}

// NewPair returns two connected endpoints. The local player of the first
// endpoint is players[0] and the local player of the second is players[1].
//
// The delay is the number of times the receiving endpoint must poll for inputs
// before a message is delivered.
func NewPair(delay int, players [2]int) (*Endpoint, *Endpoint) {
	l := &link{delay: max(delay, 0)}
	a := &Endpoint{link: l, player: players[0]}
	b := &Endpoint{link: l, player: players[1]}
	a.peer = b
	b.peer = a
	return a, b
}

// SetDelay changes the delay of the pair. Messages already sent are not
// affected.
func (e *Endpoint) SetDelay(delay int) {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()
	e.link.delay = max(delay, 0)
}

// Disconnect both endpoints of the pair. Simulates the loss of the peer.
func (e *Endpoint) Disconnect() {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()
	e.link.disconnected = true
}

// send a message to the peer. must be called with the critical section held
func (e *Endpoint) send(m message) {
	m.due = e.peer.polls + e.link.delay
	e.peer.inbox = append(e.peer.inbox, m)
}

// PollConfirmedInputs implements the session.Session interface. Each call
// counts as one poll for the purposes of the delay.
func (e *Endpoint) PollConfirmedInputs() []session.ConfirmedInput {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()

	if e.link.disconnected {
		return nil
	}

	e.polls++

	var ins []session.ConfirmedInput
	keep := e.inbox[:0]
	for _, m := range e.inbox {
		if m.isInput && m.due <= e.polls {
			ins = append(ins, m.input)
		} else {
			keep = append(keep, m)
		}
	}
	e.inbox = keep

	return ins
}

// PollPeerChecksums implements the session.Session interface.
func (e *Endpoint) PollPeerChecksums() []session.PeerChecksum {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()

	if e.link.disconnected {
		return nil
	}

	var sums []session.PeerChecksum
	keep := e.inbox[:0]
	for _, m := range e.inbox {
		if !m.isInput && m.due <= e.polls {
			sums = append(sums, m.checksum)
		} else {
			keep = append(keep, m)
		}
	}
	e.inbox = keep

	return sums
}

// SubmitLocalInput implements the session.Session interface.
func (e *Endpoint) SubmitLocalInput(frame int, value input.Value) error {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()

	if e.link.disconnected {
		return session.ErrClosed
	}

	e.send(message{
		isInput: true,
		input:   session.ConfirmedInput{Frame: frame, Player: e.player, Value: value},
	})
	return nil
}

// SubmitChecksum implements the session.Session interface.
func (e *Endpoint) SubmitChecksum(frame int, hash uint64) error {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()

	if e.link.disconnected {
		return session.ErrClosed
	}

	e.send(message{
		checksum: session.PeerChecksum{Frame: frame, Hash: hash},
	})
	return nil
}

// Stats implements the session.Session interface.
func (e *Endpoint) Stats() session.Stats {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()
	return session.Stats{
		RoundTrip:      time.Duration(2*e.link.delay) * tick,
		RollbackFrames: e.link.delay,
	}
}

// Status implements the session.Session interface.
func (e *Endpoint) Status() session.Status {
	e.link.crit.Lock()
	defer e.link.crit.Unlock()
	if e.link.disconnected {
		return session.Disconnected
	}
	return session.Connected
}

// Close implements the session.Session interface. Closing either endpoint
// disconnects the pair.
func (e *Endpoint) Close() error {
	e.Disconnect()
	return nil
}

// LocalPlayer returns the index of the player whose input is sent by this
// endpoint.
func (e *Endpoint) LocalPlayer() int {
	return e.player
}
