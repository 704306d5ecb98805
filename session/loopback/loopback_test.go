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

package loopback_test

import (
	"errors"
	"testing"

	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/session"
	"github.com/nightskyengine/rollback/session/loopback"
	"github.com/nightskyengine/rollback/test"
)

// loopback endpoints must satisfy the session interface
var _ session.Session = (*loopback.Endpoint)(nil)

func TestDelivery(t *testing.T) {
	a, b := loopback.NewPair(0, [2]int{0, 1})
	test.ExpectEquality(t, a.LocalPlayer(), 0)
	test.ExpectEquality(t, b.LocalPlayer(), 1)

	test.DemandSuccess(t, a.SubmitLocalInput(1, input.A))
	test.DemandSuccess(t, a.SubmitLocalInput(2, input.B))
	test.DemandSuccess(t, a.SubmitChecksum(1, 0xabcd))

	// nothing is sent to the sender
	test.ExpectEquality(t, len(a.PollConfirmedInputs()), 0)

	ins := b.PollConfirmedInputs()
	test.DemandEquality(t, len(ins), 2)
	test.ExpectEquality(t, ins[0], session.ConfirmedInput{Frame: 1, Player: 0, Value: input.A})
	test.ExpectEquality(t, ins[1].Frame, 2)

	sums := b.PollPeerChecksums()
	test.DemandEquality(t, len(sums), 1)
	test.ExpectEquality(t, sums[0], session.PeerChecksum{Frame: 1, Hash: 0xabcd})

	// drained
	test.ExpectEquality(t, len(b.PollConfirmedInputs()), 0)
	test.ExpectEquality(t, len(b.PollPeerChecksums()), 0)
}

func TestDelay(t *testing.T) {
	a, b := loopback.NewPair(3, [2]int{0, 1})
	test.DemandSuccess(t, a.SubmitLocalInput(1, input.C))

	test.ExpectEquality(t, len(b.PollConfirmedInputs()), 0)
	test.ExpectEquality(t, len(b.PollConfirmedInputs()), 0)
	test.ExpectEquality(t, len(b.PollConfirmedInputs()), 1)

	s := a.Stats()
	test.ExpectEquality(t, s.RollbackFrames, 3)
	test.ExpectSuccess(t, s.RoundTrip > 0)

	a.SetDelay(0)
	test.DemandSuccess(t, b.SubmitLocalInput(1, input.D))
	ins := a.PollConfirmedInputs()
	test.DemandEquality(t, len(ins), 1)
	test.ExpectEquality(t, ins[0].Player, 1)
}

func TestDisconnect(t *testing.T) {
	a, b := loopback.NewPair(0, [2]int{0, 1})
	test.ExpectEquality(t, a.Status(), session.Connected)

	b.Disconnect()
	test.ExpectEquality(t, a.Status(), session.Disconnected)
	test.ExpectEquality(t, b.Status(), session.Disconnected)

	err := a.SubmitLocalInput(1, 0)
	test.ExpectSuccess(t, errors.Is(err, session.ErrClosed))
	err = a.SubmitChecksum(1, 0)
	test.ExpectSuccess(t, errors.Is(err, session.ErrClosed))
	test.ExpectEquality(t, len(a.PollConfirmedInputs()), 0)
	test.ExpectSuccess(t, a.Close())
}
