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
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Capacity of the extension hooks. The state of every extension slot is part
// of a snapshot whether or not the slot is used.
const (
	MaxExtensions      = 4
	ExtensionStateSize = 32
)

// Sentinel errors returned when adding or calling extensions.
var (
	ErrExtensionsFull     = errors.New("battle: no room for another extension")
	ErrDuplicateExtension = errors.New("battle: extension already added")
	ErrUnknownExtension   = errors.New("battle: unknown extension")
)

// ExtensionState is the persistent state of one extension.
type ExtensionState [ExtensionStateSize]byte

// Extension adds rules to the simulation. An extension keeps everything that
// changes from frame to frame in its ExtensionState so that it is saved and
// restored with the rest of the simulation. Like Advance(), Call must depend
// only on the Context and the state.
//
// The dynamic type of an Extension must be comparable.
type Extension interface {
	ExtensionName() string
	Call(ctx *Context, state *ExtensionState)
}

// AddExtension adds an extension to the context. Added extensions are called
// in the order they were added at the end of every frame in which the players
// have control. Names are not case sensitive.
func (c *Context) AddExtension(e Extension) error {
	name := e.ExtensionName()
	n := 0
	for _, x := range c.extensions {
		if x == nil {
			break
		}
		if strings.EqualFold(x.ExtensionName(), name) {
			return fmt.Errorf("%w: %s", ErrDuplicateExtension, name)
		}
		n++
	}
	if n >= MaxExtensions {
		return fmt.Errorf("%w: %s", ErrExtensionsFull, name)
	}
	c.extensions[n] = e
	return nil
}

// ExtensionNames returns the names of the added extensions in the order they
// were added.
func (c *Context) ExtensionNames() []string {
	var names []string
	for _, x := range c.extensions {
		if x == nil {
			break
		}
		names = append(names, x.ExtensionName())
	}
	return names
}

// CallExtension calls the named extension immediately.
func (c *Context) CallExtension(name string) error {
	for i, x := range c.extensions {
		if x == nil {
			break
		}
		if strings.EqualFold(x.ExtensionName(), name) {
			x.Call(c, &c.ExtensionData[i])
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownExtension, name)
}

func (c *Context) runExtensions() {
	for i, x := range c.extensions {
		if x == nil {
			return
		}
		x.Call(c, &c.ExtensionData[i])
	}
}

// LookupExtension returns the built-in extension with the name.
func LookupExtension(name string) (Extension, error) {
	switch strings.ToLower(name) {
	case FirstHit{}.ExtensionName():
		return FirstHit{Meter: DefaultFirstHitMeter}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, name)
}

// DefaultFirstHitMeter is the meter given by the FirstHit extension returned
// by LookupExtension().
const DefaultFirstHitMeter = 1000

// FirstHit gives super meter to the side that lands the first hit of each
// round.
//
// State: bytes 0-3 are the round the state refers to and byte 4 is one more
// than the side given the meter, or zero if nobody has hit yet.
type FirstHit struct {
	Meter int32
}

// ExtensionName implements the Extension interface.
func (FirstHit) ExtensionName() string {
	return "firsthit"
}

// Call implements the Extension interface.
func (f FirstHit) Call(ctx *Context, state *ExtensionState) {
	// the round has just ended
	if ctx.Battle.PauseTimer > 0 {
		return
	}

	round := ctx.Battle.RoundCount
	if int32(binary.LittleEndian.Uint32(state[0:])) != round {
		binary.LittleEndian.PutUint32(state[0:], uint32(round))
		state[4] = 0
	}
	if state[4] != 0 {
		return
	}
	for s := range NumSides {
		defender, _ := PlayerIndex(ctx.MainPlayer(1 - s))
		if ctx.Players[defender].ComboCounter > 0 {
			ctx.AddMeter(s, f.Meter)
			state[4] = byte(s + 1)
			return
		}
	}
}

// FirstHitSide returns the side given meter by the FirstHit extension in the
// current round. Returns false if nobody has hit yet.
func FirstHitSide(state ExtensionState) (int, bool) {
	if state[4] == 0 {
		return 0, false
	}
	return int(state[4]) - 1, true
}
