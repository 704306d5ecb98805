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

// Package session defines the interface between the frame driver and the
// network session that connects it to a peer.
//
// The frame driver never blocks on the network. Every method of a Session
// returns immediately. Inputs and checksums that have arrived since the last
// call are drained with the Poll methods. Implementations are free to do their
// I/O on other goroutines but must be safe to call from the driver's
// goroutine while that I/O is happening.
//
// The loopback package is an in-memory implementation used for testing and for
// running two drivers in the same process. The wsnet package is an
// implementation over websockets.
package session

import (
	"errors"
	"time"

	"github.com/nightskyengine/rollback/input"
)

// ConfirmedInput is an authoritative input value from the peer.
type ConfirmedInput struct {
	Frame  int
	Player int
	Value  input.Value
}

// PeerChecksum is the checksum the peer computed for a frame.
type PeerChecksum struct {
	Frame int
	Hash  uint64
}

// Stats of the connection.
type Stats struct {
	// estimated round trip time to the peer
	RoundTrip time.Duration

	// estimated number of frames that will be rolled back because of the
	// latency of the connection
	RollbackFrames int
}

// Status of the connection.
type Status int

// List of valid Status values.
const (
	Connecting Status = iota
	Connected
	Disconnected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// ErrClosed is returned when submitting to a session that is disconnected.
var ErrClosed = errors.New("session closed")

// Session is the network session as seen by the frame driver.
type Session interface {
	// inputs and checksums received since the previous call, in the order
	// they were received
	PollConfirmedInputs() []ConfirmedInput
	PollPeerChecksums() []PeerChecksum

	// send the local player's input for a frame to the peer
	SubmitLocalInput(frame int, value input.Value) error

	// send the local checksum for a frame to the peer
	SubmitChecksum(frame int, hash uint64) error

	Stats() Stats
	Status() Status
	Close() error
}

// FramesForLatency returns the number of frames that pass in half of the round
// trip time at the tick rate. This is a reasonable estimate of how many frames
// will be rolled back when remote input arrives.
func FramesForLatency(roundTrip time.Duration, tickRate int) int {
	if tickRate <= 0 || roundTrip <= 0 {
		return 0
	}
	frame := time.Second / time.Duration(tickRate)
	return int((roundTrip/2 + frame - 1) / frame)
}
