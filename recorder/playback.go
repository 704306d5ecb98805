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

package recorder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/snapshot"
)

// ErrHash is returned when the simulation does not produce the checksum
// recorded in the replay.
var ErrHash = errors.New("playback: unexpected checksum")

// HashError gives the details of an ErrHash failure.
type HashError struct {
	Line     int
	Frame    int
	Expected uint64
	Got      uint64
}

func (e *HashError) Error() string {
	return fmt.Sprintf("%v at line %d (frame %d): expected %016x, got %016x", ErrHash, e.Line, e.Frame, e.Expected, e.Got)
}

func (e *HashError) Unwrap() error {
	return ErrHash
}

// Playback reperforms the inputs of a previously recorded replay.
type Playback struct {
	header   Header
	sequence []entry

	ctx *battle.Context
	buf []byte
}

func (plb *Playback) String() string {
	end := plb.EndFrame()
	if end == 0 {
		return "0/0"
	}
	curr := plb.ctx.Frame()
	return fmt.Sprintf("%d/%d (%.1f%%)", curr, end, 100*(float64(curr)/float64(end)))
}

// NewPlayback is the preferred method of initialisation for the Playback type.
func NewPlayback(r io.Reader) (*Playback, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	defer zr.Close()

	var lines []string
	scanner := bufio.NewScanner(zr)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	plb := &Playback{
		buf: make([]byte, snapshot.Size),
	}

	plb.header, err = parseHeader(lines)
	if err != nil {
		return nil, err
	}
	if plb.header.SnapshotSize != snapshot.Size {
		return nil, fmt.Errorf("playback: replay was made with a snapshot size of %d. the current size is %d", plb.header.SnapshotSize, snapshot.Size)
	}

	for i := numHeaderLines; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		e, err := parseEntry(lines[i], i+1)
		if err != nil {
			return nil, err
		}
		if e.frame != len(plb.sequence)+1 {
			return nil, fmt.Errorf("recorder: %w: frame %d at line %d", ErrSequence, e.frame, i+1)
		}
		plb.sequence = append(plb.sequence, e)
	}

	plb.ctx = battle.NewContext(plb.header.Setup)
	for _, name := range strings.Split(plb.header.Extensions, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e, err := battle.LookupExtension(name)
		if err != nil {
			return nil, fmt.Errorf("playback: %w", err)
		}
		if err := plb.ctx.AddExtension(e); err != nil {
			return nil, fmt.Errorf("playback: %w", err)
		}
	}

	return plb, nil
}

// Header returns the replay header.
func (plb *Playback) Header() Header {
	return plb.header
}

// EndFrame returns the last frame in the replay.
func (plb *Playback) EndFrame() int {
	return len(plb.sequence)
}

// Inputs returns the recorded inputs for the frame.
func (plb *Playback) Inputs(frame int) ([input.NumPlayers]input.Value, bool) {
	if frame < 1 || frame > len(plb.sequence) {
		return [input.NumPlayers]input.Value{}, false
	}
	return plb.sequence[frame-1].inputs, true
}

// Source returns a function that gives the recorded input of the player. Zero
// is returned for frames beyond the end of the replay.
func (plb *Playback) Source(player int) func(frame int) input.Value {
	return func(frame int) input.Value {
		in, _ := plb.Inputs(frame)
		return in[player]
	}
}

// View of the playback simulation.
func (plb *Playback) View() battle.View {
	return plb.ctx.View()
}

// RunTo advances the playback simulation to the frame, checking the checksum
// of every frame. The playback can not go backwards.
func (plb *Playback) RunTo(frame int) error {
	frame = min(frame, len(plb.sequence))

	for plb.ctx.Frame() < frame {
		e := plb.sequence[plb.ctx.Frame()]
		plb.ctx.Advance(e.inputs)

		if err := snapshot.EncodeInto(plb.buf, plb.ctx); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		if hash := digest.Checksum(plb.buf); hash != e.hash {
			return &HashError{Line: e.line, Frame: e.frame, Expected: e.hash, Got: hash}
		}
	}

	return nil
}

// Verify runs the entire replay.
func (plb *Playback) Verify() error {
	return plb.RunTo(plb.EndFrame())
}
