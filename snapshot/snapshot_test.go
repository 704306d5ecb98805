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

package snapshot_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/snapshot"
	"github.com/nightskyengine/rollback/test"
)

type script struct {
	state uint32
}

func (s *script) next() input.Value {
	s.state = s.state*1664525 + 1013904223
	return input.Value(s.state>>16) & input.Mask
}

// a context that has been played for a while, with projectiles and effects in
// flight
func played(frames int) *battle.Context {
	ctx := battle.NewContext(battle.Setup{RoundFormat: battle.ThreeVsThree, RoundTime: 30, Seed: 77})
	s := script{state: 5}
	for range frames {
		ctx.Advance([input.NumPlayers]input.Value{s.next(), s.next()})
	}
	ctx.AddBattleObject(battle.KindProjectile, 1000, 2000, -1, battle.PlayerSlot(4))
	return ctx
}

func TestSize(t *testing.T) {
	test.ExpectEquality(t, snapshot.Size, 40134)
	test.ExpectEquality(t, len(snapshot.Encode(battle.NewContext(battle.DefaultSetup()))), snapshot.Size)
}

func TestRoundTrip(t *testing.T) {
	for _, frames := range []int{0, 1, 100, 1000, 2500} {
		ctx := played(frames)
		b := snapshot.Encode(ctx)

		var restored battle.Context
		test.DemandSuccess(t, snapshot.Decode(b, &restored))
		test.ExpectSuccess(t, restored == *ctx, frames)

		// and the restored state encodes to the same bytes
		test.ExpectSuccess(t, bytes.Equal(snapshot.Encode(&restored), b), frames)
	}
}

func TestDecodeOverwrites(t *testing.T) {
	ctx := played(500)
	b := snapshot.Encode(ctx)

	// a context with different contents in every region
	dirty := played(900)
	for slot := range battle.MaxBattleObjects {
		if !dirty.Active[slot] {
			dirty.AddBattleObject(battle.KindEffect, 1, 1, 1, battle.NoSlot)
		}
	}

	test.DemandSuccess(t, snapshot.Decode(b, dirty))
	test.ExpectSuccess(t, *dirty == *ctx)
}

func TestDeterministicBytes(t *testing.T) {
	a := snapshot.Encode(played(700))
	b := snapshot.Encode(played(700))
	test.ExpectSuccess(t, bytes.Equal(a, b))

	// EncodeInto a buffer full of junk gives the same bytes
	junk := bytes.Repeat([]byte{0xff}, snapshot.Size)
	test.DemandSuccess(t, snapshot.EncodeInto(junk, played(700)))
	test.ExpectSuccess(t, bytes.Equal(a, junk))
}

func TestInactiveSlotsAreZero(t *testing.T) {
	ctx := battle.NewContext(battle.DefaultSetup())
	slot, ok := ctx.AddBattleObject(battle.KindProjectile, 500, 500, 1, battle.PlayerSlot(0))
	test.DemandSuccess(t, ok)
	ctx.Deactivate(slot)

	b := snapshot.Encode(ctx)
	record := b[snapshot.BattleStateStride : snapshot.BattleStateStride+snapshot.ObjectStride]
	test.ExpectSuccess(t, bytes.Equal(record, make([]byte, snapshot.ObjectStride)))

	// liveness flags occupy the end of the buffer
	test.ExpectEquality(t, b[snapshot.Size-battle.MaxObjects], 0)
	test.ExpectEquality(t, b[snapshot.Size-1], 1)
}

func TestSingleFieldChange(t *testing.T) {
	ctx := played(300)
	a := snapshot.Encode(ctx)

	ctx.Battle.Random.Next()
	b := snapshot.Encode(ctx)
	test.ExpectFailure(t, bytes.Equal(a, b))

	diff := 0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	test.ExpectSuccess(t, diff > 0 && diff <= 4)
}

func TestSizeMismatch(t *testing.T) {
	var ctx battle.Context

	err := snapshot.Decode(make([]byte, snapshot.Size-1), &ctx)
	test.ExpectSuccess(t, errors.Is(err, snapshot.ErrSizeMismatch))

	err = snapshot.EncodeInto(make([]byte, snapshot.Size+1), &ctx)
	test.ExpectSuccess(t, errors.Is(err, snapshot.ErrSizeMismatch))
}

func TestIntroAndExtensionState(t *testing.T) {
	ctx := played(50)
	test.DemandEquality(t, ctx.Battle.CurrentIntroSide, battle.IntroSide1)
	test.DemandEquality(t, ctx.Battle.CurrentSequenceTime, int32(50-battle.IntroLength))

	ctx.ExtensionData[0][0] = 0x11
	ctx.ExtensionData[battle.MaxExtensions-1][battle.ExtensionStateSize-1] = 0x22
	b := snapshot.Encode(ctx)

	restored := battle.NewContext(battle.DefaultSetup())
	test.DemandSuccess(t, restored.AddExtension(battle.FirstHit{Meter: 10}))
	test.DemandSuccess(t, snapshot.Decode(b, restored))
	test.ExpectEquality(t, restored.Battle, ctx.Battle)
	test.ExpectEquality(t, restored.ExtensionData, ctx.ExtensionData)

	// restoring state does not remove the extension
	test.ExpectEquality(t, len(restored.ExtensionNames()), 1)

	// the extension region sits between the players and the liveness flags
	end := snapshot.Size - battle.MaxObjects
	test.ExpectEquality(t, b[end-1], 0x22)
	test.ExpectEquality(t, b[end-snapshot.ExtensionStride*battle.MaxExtensions], 0x11)
}
