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

package random

// DefaultSeed is used when a zero seed is requested. A xorshift generator with
// a zero state only ever produces zero.
const DefaultSeed = 0x2545f491

// Random is a xorshift32 generator. The zero value is not useful; use
// NewRandom() or Seed().
type Random uint32

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(seed uint32) Random {
	if seed == 0 {
		seed = DefaultSeed
	}
	return Random(seed)
}

// Seed resets the generator.
func (rnd *Random) Seed(seed uint32) {
	*rnd = NewRandom(seed)
}

// Next returns the next number in the sequence.
func (rnd *Random) Next() uint32 {
	x := uint32(*rnd)
	if x == 0 {
		x = DefaultSeed
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*rnd = Random(x)
	return x
}

// Intn returns a number in the range [0, n). Returns zero if n is less than
// or equal to zero.
func (rnd *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(rnd.Next() % uint32(n))
}

// Chance returns true with a probability of percent/100.
func (rnd *Random) Chance(percent int) bool {
	return rnd.Intn(100) < percent
}
