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
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
)

const (
	fieldFrame int = iota
	fieldPlayerOne
	fieldPlayerTwo
	fieldHash
	numFields
)

const fieldSep = ", "

// replay file header format
// -------------------------
//
// # nightsky replay
// # <match id>
// # <snapshot size>
// # <round format>
// # <round time>
// # <seed>
// # <battle extensions, comma separated, or none>

const headerMagic = "nightsky replay"

const (
	lineMagic int = iota
	lineMatch
	lineSnapshotSize
	lineRoundFormat
	lineRoundTime
	lineSeed
	lineExtensions
	numHeaderLines
)

// Header describes the match in a replay.
type Header struct {
	Match        uuid.UUID
	SnapshotSize int
	Setup        battle.Setup

	// comma separated names of the battle extensions used in the match
	Extensions string
}

const noExtensions = "none"

func (h Header) lines() []string {
	lines := make([]string, numHeaderLines)
	lines[lineMagic] = headerMagic
	lines[lineMatch] = h.Match.String()
	lines[lineSnapshotSize] = strconv.Itoa(h.SnapshotSize)
	lines[lineRoundFormat] = h.Setup.RoundFormat.String()
	lines[lineRoundTime] = strconv.Itoa(h.Setup.RoundTime)
	lines[lineSeed] = strconv.FormatUint(uint64(h.Setup.Seed), 10)
	lines[lineExtensions] = h.Extensions
	if h.Extensions == "" {
		lines[lineExtensions] = noExtensions
	}
	for i := range lines {
		lines[i] = fmt.Sprintf("# %s", lines[i])
	}
	return lines
}

func parseHeader(lines []string) (Header, error) {
	var h Header

	if len(lines) < numHeaderLines {
		return h, fmt.Errorf("recorder: %w: header too short", ErrFormat)
	}

	vals := make([]string, numHeaderLines)
	for i := range vals {
		v, ok := strings.CutPrefix(lines[i], "# ")
		if !ok {
			return h, fmt.Errorf("recorder: %w: line %d is not a header line", ErrFormat, i+1)
		}
		vals[i] = v
	}

	if vals[lineMagic] != headerMagic {
		return h, fmt.Errorf("recorder: %w: not a replay file", ErrFormat)
	}

	var err error

	h.Match, err = uuid.Parse(vals[lineMatch])
	if err != nil {
		return h, fmt.Errorf("recorder: %w: match id: %w", ErrFormat, err)
	}

	h.SnapshotSize, err = strconv.Atoi(vals[lineSnapshotSize])
	if err != nil {
		return h, fmt.Errorf("recorder: %w: snapshot size: %w", ErrFormat, err)
	}

	h.Setup.RoundFormat, err = battle.ParseRoundFormat(vals[lineRoundFormat])
	if err != nil {
		return h, fmt.Errorf("recorder: %w: %w", ErrFormat, err)
	}

	h.Setup.RoundTime, err = strconv.Atoi(vals[lineRoundTime])
	if err != nil {
		return h, fmt.Errorf("recorder: %w: round time: %w", ErrFormat, err)
	}

	s, err := strconv.ParseUint(vals[lineSeed], 10, 32)
	if err != nil {
		return h, fmt.Errorf("recorder: %w: seed: %w", ErrFormat, err)
	}
	h.Setup.Seed = uint32(s)

	if vals[lineExtensions] != noExtensions {
		h.Extensions = vals[lineExtensions]
	}

	return h, nil
}

// entry is a single confirmed frame
type entry struct {
	frame  int
	inputs [input.NumPlayers]input.Value
	hash   uint64

	// the line in the replay file the entry appears
	line int
}

func (e entry) String() string {
	return strings.Join([]string{
		strconv.Itoa(e.frame),
		strconv.FormatInt(int64(e.inputs[0]), 10),
		strconv.FormatInt(int64(e.inputs[1]), 10),
		fmt.Sprintf("%016x", e.hash),
	}, fieldSep)
}

func parseEntry(line string, n int) (entry, error) {
	e := entry{line: n}

	toks := strings.Split(line, fieldSep)
	if len(toks) != numFields {
		return e, fmt.Errorf("recorder: %w: expected %d fields at line %d", ErrFormat, numFields, n)
	}

	col := func(field int) int {
		return len(strings.Join(toks[:field], fieldSep)) + 1
	}

	var err error

	e.frame, err = strconv.Atoi(toks[fieldFrame])
	if err != nil {
		return e, fmt.Errorf("recorder: %w: line %d, col %d", ErrFormat, n, col(fieldFrame))
	}

	for p, field := range []int{fieldPlayerOne, fieldPlayerTwo} {
		v, err := strconv.ParseInt(toks[field], 10, 32)
		if err != nil {
			return e, fmt.Errorf("recorder: %w: line %d, col %d", ErrFormat, n, col(field))
		}
		e.inputs[p] = input.Value(v)
	}

	e.hash, err = strconv.ParseUint(toks[fieldHash], 16, 64)
	if err != nil {
		return e, fmt.Errorf("recorder: %w: line %d, col %d", ErrFormat, n, col(fieldHash))
	}

	return e, nil
}
