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

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/synctest"
	"github.com/nightskyengine/rollback/test"
)

func TestLaunchHelp(t *testing.T) {
	test.ExpectEquality(t, launch(context.Background(), []string{"-help"}), exitOK)
	test.ExpectEquality(t, launch(context.Background(), []string{"synctest", "-help"}), exitOK)
}

func TestLaunchSyncTest(t *testing.T) {
	ret := launch(context.Background(), []string{"synctest", "-frames", "120", "-distance", "3", "-compare"})
	test.ExpectEquality(t, ret, exitOK)

	ret = launch(context.Background(), []string{"synctest", "-prefs", "no.such.key::1"})
	test.ExpectEquality(t, ret, exitMode)
}

func TestLaunchVerify(t *testing.T) {
	test.ExpectEquality(t, launch(context.Background(), []string{"verify"}), exitMode)

	missing := filepath.Join(t.TempDir(), "missing.replay")
	test.ExpectEquality(t, launch(context.Background(), []string{"verify", missing}), exitMode)
}

func TestLaunchPlayArguments(t *testing.T) {
	// neither -host nor -join
	test.ExpectEquality(t, launch(context.Background(), []string{"play"}), exitMode)
	test.ExpectEquality(t, launch(context.Background(), []string{"play", "-host", ":0", "-join", "ws://localhost"}), exitMode)
}

func TestLaunchSummary(t *testing.T) {
	ret := launch(context.Background(), []string{"dump", "-summary", "-frame", "60"})
	test.ExpectEquality(t, ret, exitOK)
}

func BenchmarkSyncTest(b *testing.B) {
	st, err := synctest.NewSyncTest(battle.DefaultSetup(), 8, 7)
	if err != nil {
		b.Fatal(err)
	}
	inputs := mashed(1)

	b.ResetTimer()
	for range b.N {
		if err := st.Step(inputs(st.Frame() + 1)); err != nil {
			b.Fatal(err)
		}
	}
}
