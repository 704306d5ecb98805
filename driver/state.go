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

package driver

// State of the driver.
type State int

// List of valid State values.
const (
	Idle State = iota
	Collecting
	Deciding
	RollingBack
	Advancing
	Committed
	Disconnected
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	case Deciding:
		return "deciding"
	case RollingBack:
		return "rolling back"
	case Advancing:
		return "advancing"
	case Committed:
		return "committed"
	case Disconnected:
		return "disconnected"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Terminal returns true if the driver can never tick again from this state.
func (s State) Terminal() bool {
	return s == Disconnected || s == Aborted
}
