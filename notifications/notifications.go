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

package notifications

// Notice describes events in the frame driver that the application may want
// to present to the user.
type Notice string

// List of defined notifications.
const (
	// the local and peer checksums differ for a confirmed frame
	NotifyDesync Notice = "NotifyDesync"

	// a peer checksum arrived for a frame that can no longer be checked
	NotifyUnverifiable Notice = "NotifyUnverifiable"

	// the network session has lost the peer. the driver will not tick again
	NotifyDisconnect Notice = "NotifyDisconnect"

	// the driver has aborted because of an internal error
	NotifyAbort Notice = "NotifyAbort"

	// the simulation was rolled back and resimulated
	NotifyRollback Notice = "NotifyRollback"

	// the driver is waiting for remote input before it can advance
	NotifyStall Notice = "NotifyStall"

	// the round trip time has risen above, or fallen back below, the
	// configured threshold
	NotifyDegraded  Notice = "NotifyDegraded"
	NotifyRecovered Notice = "NotifyRecovered"

	// the match has ended
	NotifyMatchOver Notice = "NotifyMatchOver"
)

// Notify is implemented by the application to receive notices from the frame
// driver. The frame argument is the frame the notice relates to.
//
// Notify is called from the goroutine running the frame driver and should
// return quickly.
type Notify interface {
	Notify(notice Notice, frame int) error
}

// NotifyFunc allows a function to be used as a Notify implementation.
type NotifyFunc func(notice Notice, frame int) error

// Notify implements the Notify interface.
func (f NotifyFunc) Notify(notice Notice, frame int) error {
	return f(notice, frame)
}

type discard struct{}

func (discard) Notify(_ Notice, _ int) error {
	return nil
}

// Discard is a Notify implementation that ignores every notice.
var Discard Notify = discard{}
