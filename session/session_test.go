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

package session_test

import (
	"testing"
	"time"

	"github.com/nightskyengine/rollback/session"
	"github.com/nightskyengine/rollback/test"
)

func TestFramesForLatency(t *testing.T) {
	test.ExpectEquality(t, session.FramesForLatency(0, 60), 0)
	test.ExpectEquality(t, session.FramesForLatency(100*time.Millisecond, 0), 0)

	// 50ms one way is three frames at sixty frames per second
	test.ExpectEquality(t, session.FramesForLatency(100*time.Millisecond, 60), 3)
	test.ExpectEquality(t, session.FramesForLatency(2*time.Millisecond, 60), 1)
}

func TestStatusString(t *testing.T) {
	test.ExpectEquality(t, session.Connected.String(), "connected")
	test.ExpectEquality(t, session.Disconnected.String(), "disconnected")
	test.ExpectEquality(t, session.Status(99).String(), "unknown")
}
