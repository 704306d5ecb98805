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

package random_test

import (
	"testing"

	"github.com/nightskyengine/rollback/random"
	"github.com/nightskyengine/rollback/test"
)

func TestRandom(t *testing.T) {
	a := random.NewRandom(1234)
	b := random.NewRandom(1234)

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}
}

func TestRestore(t *testing.T) {
	a := random.NewRandom(99)
	a.Next()

	// copying the state is the same as restoring it from a snapshot
	saved := a
	first := []uint32{a.Next(), a.Next(), a.Next()}

	a = saved
	second := []uint32{a.Next(), a.Next(), a.Next()}

	for i := range first {
		test.ExpectEquality(t, first[i], second[i])
	}
}

func TestZeroSeed(t *testing.T) {
	a := random.NewRandom(0)
	test.ExpectEquality(t, uint32(a), uint32(random.DefaultSeed))
	test.ExpectInequality(t, a.Next(), 0)

	var z random.Random
	test.ExpectInequality(t, z.Next(), 0)
}

func TestIntnRange(t *testing.T) {
	a := random.NewRandom(7)
	for range 1000 {
		v := a.Intn(10)
		test.ExpectSuccess(t, v >= 0 && v < 10)
	}
	test.ExpectEquality(t, a.Intn(0), 0)
}
