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

import (
	"errors"
	"time"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/logger"
)

// Sentinel errors returned by the driver.
var (
	ErrNotStarted     = errors.New("driver: not started")
	ErrAlreadyStarted = errors.New("driver: already started")
	ErrDisconnected   = errors.New("driver: connection lost")
	ErrAborted        = errors.New("driver: aborted")
)

// Default values used when the corresponding Config field is zero.
const (
	DefaultHorizon       = 8
	DefaultHistoryLength = 120
	DefaultTickRate      = 60
)

// Config for a new Driver.
type Config struct {
	Setup battle.Setup

	// battle extensions added to the simulation. both peers must use the
	// same extensions in the same order
	Extensions []battle.Extension

	// the number of frames that can be rolled back
	Horizon int

	// the player whose input comes from the LocalSource
	LocalPlayer int

	// checksums are sent to the peer for every frame that is a multiple of
	// the interval
	ChecksumInterval int

	// the number of local checksums kept for comparison with late peer
	// checksums
	HistoryLength int

	// round trip time above which the connection is considered degraded.
	// zero disables the check
	HighPingThreshold time.Duration

	// ticks per second. used to estimate rollback frames from the round trip
	// time
	TickRate int

	// permission for the driver's log entries. nil is logger.Allow
	Log logger.Permission
}

func (cfg *Config) normalise() {
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	cfg.ChecksumInterval = max(cfg.ChecksumInterval, 1)
	if cfg.HistoryLength <= 0 {
		cfg.HistoryLength = DefaultHistoryLength
	}
	cfg.HistoryLength = max(cfg.HistoryLength, cfg.Horizon)
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Log == nil {
		cfg.Log = logger.Allow
	}
}

// LocalSource provides the input of the local player.
type LocalSource interface {
	LocalInput(frame int) input.Value
}

// LocalSourceFunc allows a function to be used as a LocalSource.
type LocalSourceFunc func(frame int) input.Value

// LocalInput implements the LocalSource interface.
func (f LocalSourceFunc) LocalInput(frame int) input.Value {
	return f(frame)
}

// Presenter implementations are given a view of the simulation after every
// committed frame. The view must not be kept after Present() returns.
type Presenter interface {
	Present(v battle.View)
}

// Recorder implementations are given the inputs and checksum of every frame
// once the frame has been confirmed. Frames are given in order and each frame
// is given once.
type Recorder interface {
	RecordFrame(frame int, inputs [input.NumPlayers]input.Value, hash uint64) error
}

// Result of a single tick.
type Result struct {
	// the most recently committed frame
	Frame int

	// the driver is waiting for remote input. no frame was advanced
	Stalled bool

	// the first frame that was resimulated and the number of frames
	// resimulated. zero if there was no rollback
	RollbackFrom int
	RolledBack   int

	// the number of checksums sent to the peer
	Submitted int

	// peer checksums that did not match
	Desyncs []digest.Result

	// peer checksums that could not be checked
	Unverifiable int
}

// NetworkStats of a running driver.
type NetworkStats struct {
	// round trip time as reported by the session
	Ping time.Duration

	// estimated frames rolled back because of latency
	RollbackFrames int

	// number of rollbacks performed and the total number of frames
	// resimulated
	Rollbacks   int
	Resimulated int

	// the number of ticks that stalled waiting for remote input
	Stalls int
}
