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

package wsnet

import (
	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/vmihailenco/msgpack/v5"
)

// protocol version. peers must agree on this exactly
const protocolVersion = 1

type kind uint8

const (
	kindHello kind = iota
	kindInput
	kindChecksum
	kindBye
)

type hello struct {
	Version      int    `msgpack:"ver"`
	Session      string `msgpack:"session"`
	Player       int    `msgpack:"player"`
	SnapshotSize int    `msgpack:"size"`

	// names of the battle extensions in use. both peers must agree
	Extensions []string `msgpack:"ext,omitempty"`

	// the match as decided by the host. not sent by the joining peer
	Setup   *battle.Setup `msgpack:"setup,omitempty"`
	Horizon int           `msgpack:"horizon,omitempty"`
}

// envelope is the only message type sent over the connection
type envelope struct {
	Kind   kind        `msgpack:"k"`
	Hello  *hello      `msgpack:"h,omitempty"`
	Frame  int         `msgpack:"f,omitempty"`
	Player int         `msgpack:"p,omitempty"`
	Value  input.Value `msgpack:"v,omitempty"`
	Hash   uint64      `msgpack:"x,omitempty"`
}

func encode(e envelope) ([]byte, error) {
	return msgpack.Marshal(&e)
}

func decode(data []byte) (envelope, error) {
	var e envelope
	err := msgpack.Unmarshal(data, &e)
	return e, err
}
