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

package digest_test

import (
	"errors"
	"testing"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/snapshot"
	"github.com/nightskyengine/rollback/test"
)

// changing one input at a frame changes the checksum at that frame and after,
// but not before
func TestChecksumSensitivity(t *testing.T) {
	const frames = 200
	const changed = 150

	run := func(change bool) []uint64 {
		ctx := battle.NewContext(battle.DefaultSetup())
		sums := make([]uint64, frames+1)
		sums[0] = digest.Checksum(snapshot.Encode(ctx))
		for f := 1; f <= frames; f++ {
			in := [input.NumPlayers]input.Value{input.Right, input.Left}
			if change && f == changed {
				in[0] = input.Up
			}
			ctx.Advance(in)
			sums[f] = digest.Checksum(snapshot.Encode(ctx))
		}
		return sums
	}

	a := run(false)
	b := run(true)

	for f := 0; f < changed; f++ {
		test.ExpectEquality(t, a[f], b[f], f)
	}
	test.ExpectInequality(t, a[changed], b[changed])
	test.ExpectInequality(t, a[changed+1], b[changed+1])
}

func TestChecksumOrder(t *testing.T) {
	test.ExpectInequality(t, digest.Checksum([]byte{1, 2}), digest.Checksum([]byte{2, 1}))
	test.ExpectEquality(t, digest.Checksum([]byte("abc")), digest.Checksum([]byte("abc")))
}

func TestValidator(t *testing.T) {
	v := digest.NewValidator(16)

	v.Record(1, 100)
	v.Record(2, 200)
	v.Record(3, 300)

	h, ok := v.Local(2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, h, 200)

	// resimulated frames replace the earlier checksum
	v.Record(2, 201)
	h, _ = v.Local(2)
	test.ExpectEquality(t, h, 201)

	v.AddPeer(1, 100)
	v.AddPeer(2, 200)
	v.AddPeer(3, 300)

	// only confirmed frames are compared
	r := v.Verify(2, nil)
	test.DemandEquality(t, len(r), 2)
	test.ExpectSuccess(t, r[0].Match)
	test.ExpectSuccess(t, r[0].Verifiable)
	test.ExpectFailure(t, r[1].Match)
	test.ExpectEquality(t, r[1].Frame, 2)
	test.ExpectEquality(t, r[1].Local, 201)
	test.ExpectEquality(t, r[1].Remote, 200)
	test.ExpectEquality(t, v.Pending(), 1)

	r = v.Verify(3, nil)
	test.DemandEquality(t, len(r), 1)
	test.ExpectSuccess(t, r[0].Match)
	test.ExpectEquality(t, v.Pending(), 0)
}

type source map[int][]byte

func (s source) Bytes(frame int) ([]byte, error) {
	if b, ok := s[frame]; ok {
		return b, nil
	}
	return nil, errors.New("not available")
}

func TestValidatorSource(t *testing.T) {
	v := digest.NewValidator(4)

	snap := []byte("frame ten")
	src := source{10: snap}

	// frame 10 has no local record but the snapshot is still available
	v.AddPeer(10, digest.Checksum(snap))

	// frame 11 is not available anywhere
	v.AddPeer(11, 1234)

	r := v.Verify(20, src)
	test.DemandEquality(t, len(r), 2)
	test.ExpectSuccess(t, r[0].Verifiable)
	test.ExpectSuccess(t, r[0].Match)
	test.ExpectFailure(t, r[1].Verifiable)
	test.ExpectFailure(t, r[1].Match)
	test.ExpectEquality(t, r[1].String(), "frame 11: unverifiable")
}

func TestValidatorHistory(t *testing.T) {
	v := digest.NewValidator(4)
	for f := range 10 {
		v.Record(f, uint64(f))
	}
	_, ok := v.Local(5)
	test.ExpectFailure(t, ok)
	_, ok = v.Local(6)
	test.ExpectSuccess(t, ok)
	_, ok = v.Local(-1)
	test.ExpectFailure(t, ok)

	// the peer queue is bounded
	for f := range 6 {
		v.AddPeer(f, 0)
	}
	test.ExpectEquality(t, v.Pending(), 4)
	test.ExpectEquality(t, v.Dropped(), 2)
	r := v.Verify(100, nil)
	test.DemandEquality(t, len(r), 4)
	test.ExpectEquality(t, r[0].Frame, 2)
}

func TestMatchDigest(t *testing.T) {
	a := digest.NewMatch()
	b := digest.NewMatch()

	var d digest.Digest = a
	test.ExpectEquality(t, d.Hash(), "0000000000000000")

	for _, h := range []uint64{1, 2, 3} {
		a.AddFrame(h)
		b.AddFrame(h)
	}
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectEquality(t, a.Frames(), 3)

	// order matters
	c := digest.NewMatch()
	for _, h := range []uint64{3, 2, 1} {
		c.AddFrame(h)
	}
	test.ExpectInequality(t, a.Hash(), c.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), "0000000000000000")
	test.ExpectEquality(t, a.Frames(), 0)
}
