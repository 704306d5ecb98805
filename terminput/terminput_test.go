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

package terminput_test

import (
	"strings"
	"testing"

	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/terminput"
	"github.com/nightskyengine/rollback/test"
)

func TestFeed(t *testing.T) {
	kb := terminput.NewKeyboard(nil, 3)

	test.ExpectEquality(t, kb.LocalInput(1), input.Value(0))

	test.DemandSuccess(t, kb.Feed(strings.NewReader("dj")))

	// end of input means quit
	select {
	case <-kb.Quit():
	default:
		t.Errorf("expected quit")
	}

	// held for three frames
	test.ExpectEquality(t, kb.LocalInput(2), input.Right|input.A)
	test.ExpectEquality(t, kb.LocalInput(3), input.Right|input.A)
	test.ExpectEquality(t, kb.LocalInput(4), input.Right|input.A)
	test.ExpectEquality(t, kb.LocalInput(5), input.Value(0))
}

func TestQuitKey(t *testing.T) {
	kb := terminput.NewKeyboard(nil, 1)

	// keys after the quit key are not read
	test.DemandSuccess(t, kb.Feed(strings.NewReader("aqd")))
	test.ExpectEquality(t, kb.LocalInput(1), input.Left)
	test.ExpectEquality(t, kb.LocalInput(2), input.Value(0))

	// closing a keyboard that was never opened is fine
	test.ExpectSuccess(t, kb.Close())
}

func TestKeymap(t *testing.T) {
	kb := terminput.NewKeyboard(map[byte]input.Value{'x': input.D}, 2)
	test.DemandSuccess(t, kb.Feed(strings.NewReader("xw")))
	test.ExpectEquality(t, kb.LocalInput(10), input.D)
	test.ExpectEquality(t, kb.LocalInput(11), input.D)
	test.ExpectEquality(t, kb.LocalInput(12), input.Value(0))
}
