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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/nightskyengine/rollback/input"
)

// Sentinel errors.
var (
	ErrFormat   = errors.New("replay format error")
	ErrSequence = errors.New("frames out of sequence")
	ErrEnded    = errors.New("recording has ended")
)

// Recorder writes confirmed frames to a replay. It implements the
// driver.Recorder interface.
type Recorder struct {
	output io.WriteCloser
	zw     *zstd.Encoder

	header Header

	// the most recently recorded frame
	frame int

	ended bool
}

// NewRecorder is the preferred method of initialisation for the Recorder type.
// The output is closed by End().
func NewRecorder(output io.WriteCloser, header Header) (*Recorder, error) {
	zw, err := zstd.NewWriter(output)
	if err != nil {
		output.Close()
		return nil, fmt.Errorf("recorder: %w", err)
	}

	rec := &Recorder{
		output: output,
		zw:     zw,
		header: header,
	}

	if err := rec.writeLine(strings.Join(header.lines(), "\n")); err != nil {
		return nil, err
	}

	return rec, nil
}

func (rec *Recorder) writeLine(line string) error {
	line = line + "\n"
	n, err := io.WriteString(rec.zw, line)
	if err != nil {
		rec.abandon()
		return fmt.Errorf("recorder: %w", err)
	}
	if n != len(line) {
		rec.abandon()
		return fmt.Errorf("recorder: output truncated")
	}
	return nil
}

// abandon the recording after an error
func (rec *Recorder) abandon() {
	rec.ended = true
	rec.zw.Close()
	rec.output.Close()
}

// Header returns the header written to the replay.
func (rec *Recorder) Header() Header {
	return rec.header
}

// Frame returns the most recently recorded frame.
func (rec *Recorder) Frame() int {
	return rec.frame
}

// RecordFrame adds a confirmed frame to the replay. Frames must be recorded in
// order starting with frame one.
func (rec *Recorder) RecordFrame(frame int, inputs [input.NumPlayers]input.Value, hash uint64) error {
	if rec.ended {
		return fmt.Errorf("recorder: %w", ErrEnded)
	}
	if frame != rec.frame+1 {
		return fmt.Errorf("recorder: %w: frame %d after frame %d", ErrSequence, frame, rec.frame)
	}

	e := entry{frame: frame, inputs: inputs, hash: hash}
	if err := rec.writeLine(e.String()); err != nil {
		return err
	}
	rec.frame = frame

	return nil
}

// End the recording. The compressed stream is flushed and the output closed.
func (rec *Recorder) End() error {
	if rec.ended {
		return nil
	}
	rec.ended = true

	if err := rec.zw.Close(); err != nil {
		rec.output.Close()
		return fmt.Errorf("recorder: %w", err)
	}
	if err := rec.output.Close(); err != nil {
		return fmt.Errorf("recorder: %w", err)
	}
	return nil
}
