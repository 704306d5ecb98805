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
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/random"
)

// NoSlot is the value of a slot reference that refers to nothing.
const NoSlot = -1

// BattleState is the state of the match shared by all objects. It is a plain
// record with no references. Every field is part of a snapshot.
type BattleState struct {
	FrameNumber int32

	// frames remaining before the players gain control
	TimeUntilRoundStart int32

	RoundStartPos    int32
	CurrentScreenPos int32
	ScreenBounds     int32
	StageBounds      int32

	// frames remaining in the round. zero means the round has no time limit
	RoundTimer int32

	// frames remaining between the end of a round and the start of the next
	PauseTimer int32

	Random random.Random

	Meter    [NumSides]int32
	MaxMeter [NumSides]int32
	Gauge    [NumSides][GaugeCount]int32
	MaxGauge [GaugeCount]int32

	SuperFreezeDuration     int32
	SuperFreezeSelfDuration int32
	SuperFreezeCaller       int32

	// slot of the player object currently in control for each side
	MainPlayer [NumSides]int32

	RoundsWon  [NumSides]int32
	RoundCount int32

	// number of active objects in the battle object slots. player objects are
	// not counted
	ActiveObjectCount int32

	// the round time in frames. used when a new round begins
	RoundTimeLimit int32

	RoundFormat RoundFormat
	MatchOver   bool

	// side that won the match. -1 for no winner
	Winner int32

	// the side whose intro is playing before the first round and the number
	// of frames since the intro began. the time is -1 when no intro is
	// playing
	CurrentIntroSide    IntroSide
	CurrentSequenceTime int32
}

// IntroSide identifies the side whose intro sequence is playing.
type IntroSide int32

// List of valid IntroSide values. The intros play in this order.
const (
	IntroSide0 IntroSide = iota
	IntroSide1
	IntroNone
)

// IntroLength is the number of frames in the intro of each side. The intros
// of both sides fit in the delay before the first round.
const IntroLength = RoundStartDelay / NumSides

// Kind of SimObject.
type Kind uint8

// List of valid Kind values.
const (
	KindNone Kind = iota
	KindPlayer
	KindProjectile
	KindEffect
)

// StateID is the current action of a SimObject.
type StateID int32

// List of valid StateID values.
const (
	StateNone StateID = iota
	StateStand
	StateCrouch
	StateWalkForward
	StateWalkBackward
	StateJump
	StateLightAttack
	StateHeavyAttack
	StateSpecial
	StateSuper
	StateHitstun
	StateBlockstun
	StateKnockedOut
	StateTaggedOut
	StateProjectile
	StateEffect
)

// ObjectFlags for the SimObject type.
type ObjectFlags uint32

// List of valid ObjectFlags.
const (
	// the current attack has already connected
	FlagHasHit ObjectFlags = 1 << iota

	// the object is in the air
	FlagAirborne
)

// Hitbox of a SimObject. The offset is relative to the object's position and
// is mirrored by the object's facing.
type Hitbox struct {
	OffsetX int32
	OffsetY int32
	Width   int32
	Height  int32
	Active  bool
}

// SimObject is a single entity in the simulation. Cross references to other
// objects are slot indexes.
type SimObject struct {
	PosX    int32
	PosY    int32
	SpeedX  int32
	SpeedY  int32
	Gravity int32

	// 1 for facing right, -1 for facing left
	Facing int32

	Kind Kind
	Side int32

	StateID    StateID
	ActionTime int32
	Hitstop    int32

	PushWidth  int32
	PushHeight int32

	Hitbox    Hitbox
	HitDamage int32
	HitStun   int32

	// frames until the object is removed. zero for no limit
	Lifetime int32

	Parent int32
	Target int32

	Flags ObjectFlags
}

// PlayerFlags for the PlayerState type.
type PlayerFlags uint32

// List of valid PlayerFlags.
const (
	// the player is part of a team for the current round format
	PlayerInUse PlayerFlags = 1 << iota

	// the player is on screen. only one player per side is on screen
	PlayerOnScreen

	// the player has been knocked out
	PlayerKnockedOut
)

// PlayerState is the part of a player's state that is not common to all
// objects.
type PlayerState struct {
	// the object slot driven by the player
	Slot      int32
	Side      int32
	TeamIndex int32

	Health    int32
	MaxHealth int32

	Hitstun   int32
	Blockstun int32

	// number of hits received in the current combo and the number of frames
	// the combo has lasted
	ComboCounter int32
	ComboTimer   int32

	// the most recent input value and the history of input values, most
	// recent last
	Input       input.Value
	InputBuffer [InputBufferSize]input.Value

	// slot of the opposing main player
	Enemy int32

	Flags PlayerFlags
}

// Setup is the configuration for a new match.
type Setup struct {
	RoundFormat RoundFormat

	// round time in seconds. zero for no time limit
	RoundTime int

	// seed for the random number generator
	Seed uint32
}

// DefaultSetup returns the Setup used when nothing else is specified.
func DefaultSetup() Setup {
	return Setup{
		RoundFormat: FirstToTwo,
		RoundTime:   DefaultRoundTime,
	}
}
