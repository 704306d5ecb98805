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

// Capacities of the simulation. These determine the size of a snapshot.
const (
	// the number of slots available for spawned objects. projectiles, effects
	MaxBattleObjects = 400

	// the number of player objects. player objects occupy the last slots of
	// the object array
	MaxPlayerObjects = 6

	// the total number of object slots
	MaxObjects = MaxBattleObjects + MaxPlayerObjects

	// the number of gauges per side
	GaugeCount = 3

	// the number of sides in a match
	NumSides = 2

	// the number of players on each side. the team size of the round format
	// decides how many of them are used
	PlayersPerSide = MaxPlayerObjects / NumSides

	// the number of recent input values kept per player
	InputBufferSize = 8

	FramesPerSecond = 60
)

// Gauge indexes.
const (
	GaugeGuard = iota
	GaugeTag
	GaugeBurst
)

// Values of the battle state at the start of a match. Positions are in
// thousandths of a pixel.
const (
	DefaultRoundStartPos = 297500
	DefaultScreenBounds  = 840000
	DefaultStageBounds   = 1680000
	DefaultMaxMeter      = 10000
	DefaultMaxGauge      = 10000
	DefaultMaxHealth     = 10000
	DefaultRoundTime     = 99

	// frames between the start of a round and the players gaining control
	RoundStartDelay = 90

	// frames between the end of a round and the start of the next
	RoundEndPause = 120

	// the match ends after this many rounds regardless of the round format.
	// prevents an endless sequence of draws
	MaxRoundCount = 9
)
