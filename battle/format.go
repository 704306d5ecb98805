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

package battle

import (
	"fmt"
	"strings"
)

// RoundFormat decides how many rounds are needed to win a match and how many
// players are on each team.
type RoundFormat uint8

// List of valid RoundFormat values.
const (
	FirstToOne RoundFormat = iota
	FirstToTwo
	FirstToThree
	FirstToFour
	FirstToFive
	TwoVsTwo
	ThreeVsThree
	TwoVsTwoKOF
	ThreeVsThreeKOF
	numRoundFormats
)

var roundFormatNames = [numRoundFormats]string{
	"FirstToOne", "FirstToTwo", "FirstToThree", "FirstToFour", "FirstToFive",
	"TwoVsTwo", "ThreeVsThree", "TwoVsTwoKOF", "ThreeVsThreeKOF",
}

func (f RoundFormat) String() string {
	if f >= numRoundFormats {
		return fmt.Sprintf("RoundFormat(%d)", f)
	}
	return roundFormatNames[f]
}

// ParseRoundFormat returns the RoundFormat named by s. The comparison is not
// case sensitive.
func ParseRoundFormat(s string) (RoundFormat, error) {
	for i, n := range roundFormatNames {
		if strings.EqualFold(n, s) {
			return RoundFormat(i), nil
		}
	}
	return 0, fmt.Errorf("battle: unrecognised round format (%s)", s)
}

// Valid returns false if the value does not name a round format.
func (f RoundFormat) Valid() bool {
	return f < numRoundFormats
}

// TeamSize returns the number of players on each side.
func (f RoundFormat) TeamSize() int {
	switch f {
	case TwoVsTwo, TwoVsTwoKOF:
		return 2
	case ThreeVsThree, ThreeVsThreeKOF:
		return 3
	}
	return 1
}

// IsKOF returns true for formats where the loser of a round brings in the next
// member of their team.
func (f RoundFormat) IsKOF() bool {
	return f == TwoVsTwoKOF || f == ThreeVsThreeKOF
}

// CanTag returns true for formats where the team members can be switched
// during a round.
func (f RoundFormat) CanTag() bool {
	return f == TwoVsTwo || f == ThreeVsThree
}

// RoundsToWin returns the number of rounds needed to win the match. Not
// meaningful for KOF formats, which end when one team has no players left.
func (f RoundFormat) RoundsToWin() int {
	if f <= FirstToFive {
		return int(f) + 1
	}
	return 2
}
