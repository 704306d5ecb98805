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

package wsnet

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/logger"
	"github.com/nightskyengine/rollback/test"
)

// an input message is always from the player agreed in the handshake,
// whatever player the message names
func TestInputPlayerFromHandshake(t *testing.T) {
	opts := Options{HandshakeTimeout: 2 * time.Second, Log: logger.Deny}

	h := NewHost(0, opts)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	test.DemandSuccess(t, err)
	defer conn.Close()

	opts.normalise()
	agreed, err := handshake(conn, uuid.Nil, 1, false, opts)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, agreed.remote, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	hosted, err := h.Accept(ctx)
	test.DemandSuccess(t, err)
	defer hosted.Close()

	for _, named := range []int{0, 1, 5} {
		data, err := encode(envelope{Kind: kindInput, Frame: 3, Player: named, Value: input.A})
		test.DemandSuccess(t, err)
		test.DemandSuccess(t, conn.WriteMessage(websocket.BinaryMessage, data))
	}

	var got int
	deadline := time.Now().Add(2 * time.Second)
	for got < 3 && time.Now().Before(deadline) {
		for _, in := range hosted.PollConfirmedInputs() {
			test.ExpectEquality(t, in.Player, 1)
			test.ExpectEquality(t, in.Frame, 3)
			test.ExpectEquality(t, in.Value, input.A)
			got++
		}
		time.Sleep(time.Millisecond)
	}
	test.ExpectEquality(t, got, 3)
}
