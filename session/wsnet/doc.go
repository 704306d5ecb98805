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

// Package wsnet is a peer to peer session over a websocket. One peer hosts and
// the other joins.
//
// Both peers send a hello message after the connection is made. The hello
// carries the player index of the sender and the size of its snapshots. Peers
// with the same player index or a different snapshot size are incompatible
// and the connection is dropped. A different snapshot size means the peers are
// running different builds and would not stay in sync.
//
// After the handshake every message is a msgpack encoded envelope sent as a
// binary websocket message. Round trip time is measured with websocket ping
// and pong control messages.
package wsnet
