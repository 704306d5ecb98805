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

// Package terminput reads player input from the keyboard of a terminal.
//
// The terminal is put into cbreak mode so that key presses are available
// immediately. Terminals report key presses but not key releases so a key
// press is treated as holding the key for a short number of frames. Holding a
// key down relies on the terminal's key repeat.
package terminput

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/term"

	"github.com/nightskyengine/rollback/input"
)

// DefaultHold is the number of frames a key press is held for.
const DefaultHold = 6

// keys that end the session
const (
	keyInterrupt = 3 // end-of-text character
	keyQuit      = 'q'
)

// DefaultKeymap maps keys to input bits.
var DefaultKeymap = map[byte]input.Value{
	'w': input.Up,
	's': input.Down,
	'a': input.Left,
	'd': input.Right,
	'j': input.A,
	'k': input.B,
	'l': input.C,
	';': input.D,
	' ': input.Tag,
}

// number of input bits tracked
const numBits = 32

// Keyboard is a source of local input. LocalInput() should only be called
// from one goroutine. The reading of the terminal happens in another.
type Keyboard struct {
	keymap map[byte]input.Value
	hold   int

	// bits pressed since the last call to LocalInput()
	pressed atomic.Uint32

	// the frame until which each bit is held
	until [numBits]int

	quit     chan bool
	quitOnce sync.Once

	// the terminal if Open() was used
	tty *term.Term
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type. A nil keymap means DefaultKeymap is used. Input is read from the
// terminal by calling Open() or from any reader by calling Feed().
func NewKeyboard(keymap map[byte]input.Value, hold int) *Keyboard {
	if keymap == nil {
		keymap = DefaultKeymap
	}
	return &Keyboard{
		keymap: keymap,
		hold:   max(hold, 1),
		quit:   make(chan bool),
	}
}

// Open the terminal in cbreak mode and start reading key presses.
func (kb *Keyboard) Open(device string) error {
	if kb.tty != nil {
		return errors.New("terminput: terminal already open")
	}

	tty, err := term.Open(device, term.CBreakMode)
	if err != nil {
		return fmt.Errorf("terminput: %w", err)
	}
	kb.tty = tty

	go func() {
		_ = kb.Feed(tty)
	}()

	return nil
}

// Close restores the terminal to the mode it was in before Open().
func (kb *Keyboard) Close() error {
	kb.stop()
	if kb.tty == nil {
		return nil
	}
	tty := kb.tty
	kb.tty = nil
	if err := tty.Restore(); err != nil {
		tty.Close()
		return fmt.Errorf("terminput: %w", err)
	}
	if err := tty.Close(); err != nil {
		return fmt.Errorf("terminput: %w", err)
	}
	return nil
}

func (kb *Keyboard) stop() {
	kb.quitOnce.Do(func() {
		close(kb.quit)
	})
}

// Quit returns a channel that is closed when the quit key is pressed or the
// input ends.
func (kb *Keyboard) Quit() <-chan bool {
	return kb.quit
}

// Feed reads key presses from the reader until the reader fails or the quit
// key is pressed.
func (kb *Keyboard) Feed(r io.Reader) error {
	defer kb.stop()

	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("terminput: %w", err)
		}

		switch b {
		case keyInterrupt, keyQuit:
			return nil
		}

		if v, ok := kb.keymap[b]; ok {
			kb.press(v)
		}
	}
}

func (kb *Keyboard) press(v input.Value) {
	for {
		old := kb.pressed.Load()
		if kb.pressed.CompareAndSwap(old, old|uint32(v)) {
			return
		}
	}
}

// LocalInput returns the keys held at the frame. Frames are expected to
// increase from one call to the next.
func (kb *Keyboard) LocalInput(frame int) input.Value {
	pressed := kb.pressed.Swap(0)

	var v input.Value
	for bit := range numBits {
		mask := uint32(1) << bit
		if pressed&mask != 0 {
			kb.until[bit] = frame + kb.hold - 1
		}
		if kb.until[bit] >= frame && kb.until[bit] > 0 {
			v |= input.Value(mask)
		}
	}

	return v & input.Mask
}
