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

package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/random"
)

// The stride of each record. Each stride is at least as large as the number of
// bytes written for the record. The remainder is padding.
const (
	BattleStateStride = 144
	ObjectStride      = 96
	PlayerStride      = 80
	ExtensionStride   = battle.ExtensionStateSize
)

// Offsets of each region in the buffer.
const (
	objectsOffset    = BattleStateStride
	playersOffset    = objectsOffset + ObjectStride*battle.MaxObjects
	extensionsOffset = playersOffset + PlayerStride*battle.MaxPlayerObjects
	livenessOffset   = extensionsOffset + ExtensionStride*battle.MaxExtensions
)

// Size is the number of bytes in every snapshot.
const Size = livenessOffset + battle.MaxObjects

// ErrSizeMismatch is returned when a buffer is not exactly Size bytes.
var ErrSizeMismatch = errors.New("snapshot size mismatch")

var le = binary.LittleEndian

// writer puts values into the buffer at an advancing offset
type writer struct {
	buf []byte
	off int
}

func (w *writer) i32(v int32) {
	le.PutUint32(w.buf[w.off:], uint32(v))
	w.off += 4
}

func (w *writer) u32(v uint32) {
	le.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

func (w *writer) u8(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// pad zeroes the buffer up to the end of the record
func (w *writer) pad(end int) {
	if w.off > end {
		panic(fmt.Sprintf("snapshot: record overflows stride by %d bytes", w.off-end))
	}
	clear(w.buf[w.off:end])
	w.off = end
}

// reader takes values from the buffer at an advancing offset
type reader struct {
	buf []byte
	off int
}

func (r *reader) i32() int32 {
	v := int32(le.Uint32(r.buf[r.off:]))
	r.off += 4
	return v
}

func (r *reader) u32() uint32 {
	v := le.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) bool() bool {
	return r.u8() != 0
}

func (r *reader) skip(end int) {
	r.off = end
}

// Encode the context into a new buffer of Size bytes.
func Encode(ctx *battle.Context) []byte {
	buf := make([]byte, Size)
	_ = EncodeInto(buf, ctx)
	return buf
}

// EncodeInto encodes the context into an existing buffer, which must be
// exactly Size bytes. Every byte of the buffer is written.
func EncodeInto(buf []byte, ctx *battle.Context) error {
	if len(buf) != Size {
		return fmt.Errorf("snapshot: %w: buffer is %d bytes, expected %d", ErrSizeMismatch, len(buf), Size)
	}

	w := &writer{buf: buf}

	encodeBattle(w, &ctx.Battle)
	w.pad(objectsOffset)

	for slot := range battle.MaxObjects {
		end := objectsOffset + (slot+1)*ObjectStride
		if ctx.Active[slot] {
			encodeObject(w, &ctx.Objects[slot])
		}
		w.pad(end)
	}

	for i := range battle.MaxPlayerObjects {
		encodePlayer(w, &ctx.Players[i])
		w.pad(playersOffset + (i+1)*PlayerStride)
	}

	for i := range battle.MaxExtensions {
		w.off += copy(w.buf[w.off:], ctx.ExtensionData[i][:])
	}

	for slot := range battle.MaxObjects {
		w.bool(ctx.Active[slot])
	}

	return nil
}

// Decode the buffer into the context. Every serialised field of the context is
// overwritten. The buffer must be exactly Size bytes.
func Decode(buf []byte, ctx *battle.Context) error {
	if len(buf) != Size {
		return fmt.Errorf("snapshot: %w: buffer is %d bytes, expected %d", ErrSizeMismatch, len(buf), Size)
	}

	r := &reader{buf: buf, off: livenessOffset}
	for slot := range battle.MaxObjects {
		ctx.Active[slot] = r.bool()
	}

	r.off = 0
	decodeBattle(r, &ctx.Battle)
	r.skip(objectsOffset)

	for slot := range battle.MaxObjects {
		if ctx.Active[slot] {
			decodeObject(r, &ctx.Objects[slot])
		} else {
			ctx.Objects[slot] = battle.EmptyObject()
		}
		r.skip(objectsOffset + (slot+1)*ObjectStride)
	}

	for i := range battle.MaxPlayerObjects {
		decodePlayer(r, &ctx.Players[i])
		r.skip(playersOffset + (i+1)*PlayerStride)
	}

	for i := range battle.MaxExtensions {
		r.off += copy(ctx.ExtensionData[i][:], r.buf[r.off:])
	}

	return nil
}

func encodeBattle(w *writer, b *battle.BattleState) {
	w.i32(b.FrameNumber)
	w.i32(b.TimeUntilRoundStart)
	w.i32(b.RoundStartPos)
	w.i32(b.CurrentScreenPos)
	w.i32(b.ScreenBounds)
	w.i32(b.StageBounds)
	w.i32(b.RoundTimer)
	w.i32(b.PauseTimer)
	w.u32(uint32(b.Random))
	for s := range battle.NumSides {
		w.i32(b.Meter[s])
	}
	for s := range battle.NumSides {
		w.i32(b.MaxMeter[s])
	}
	for s := range battle.NumSides {
		for g := range battle.GaugeCount {
			w.i32(b.Gauge[s][g])
		}
	}
	for g := range battle.GaugeCount {
		w.i32(b.MaxGauge[g])
	}
	w.i32(b.SuperFreezeDuration)
	w.i32(b.SuperFreezeSelfDuration)
	w.i32(b.SuperFreezeCaller)
	for s := range battle.NumSides {
		w.i32(b.MainPlayer[s])
	}
	for s := range battle.NumSides {
		w.i32(b.RoundsWon[s])
	}
	w.i32(b.RoundCount)
	w.i32(b.ActiveObjectCount)
	w.i32(b.RoundTimeLimit)
	w.u8(uint8(b.RoundFormat))
	w.bool(b.MatchOver)
	w.i32(b.Winner)
	w.i32(int32(b.CurrentIntroSide))
	w.i32(b.CurrentSequenceTime)
}

func decodeBattle(r *reader, b *battle.BattleState) {
	b.FrameNumber = r.i32()
	b.TimeUntilRoundStart = r.i32()
	b.RoundStartPos = r.i32()
	b.CurrentScreenPos = r.i32()
	b.ScreenBounds = r.i32()
	b.StageBounds = r.i32()
	b.RoundTimer = r.i32()
	b.PauseTimer = r.i32()
	b.Random = random.Random(r.u32())
	for s := range battle.NumSides {
		b.Meter[s] = r.i32()
	}
	for s := range battle.NumSides {
		b.MaxMeter[s] = r.i32()
	}
	for s := range battle.NumSides {
		for g := range battle.GaugeCount {
			b.Gauge[s][g] = r.i32()
		}
	}
	for g := range battle.GaugeCount {
		b.MaxGauge[g] = r.i32()
	}
	b.SuperFreezeDuration = r.i32()
	b.SuperFreezeSelfDuration = r.i32()
	b.SuperFreezeCaller = r.i32()
	for s := range battle.NumSides {
		b.MainPlayer[s] = r.i32()
	}
	for s := range battle.NumSides {
		b.RoundsWon[s] = r.i32()
	}
	b.RoundCount = r.i32()
	b.ActiveObjectCount = r.i32()
	b.RoundTimeLimit = r.i32()
	b.RoundFormat = battle.RoundFormat(r.u8())
	b.MatchOver = r.bool()
	b.Winner = r.i32()
	b.CurrentIntroSide = battle.IntroSide(r.i32())
	b.CurrentSequenceTime = r.i32()
}

func encodeObject(w *writer, o *battle.SimObject) {
	w.i32(o.PosX)
	w.i32(o.PosY)
	w.i32(o.SpeedX)
	w.i32(o.SpeedY)
	w.i32(o.Gravity)
	w.i32(o.Facing)
	w.u8(uint8(o.Kind))
	w.i32(o.Side)
	w.i32(int32(o.StateID))
	w.i32(o.ActionTime)
	w.i32(o.Hitstop)
	w.i32(o.PushWidth)
	w.i32(o.PushHeight)
	w.i32(o.Hitbox.OffsetX)
	w.i32(o.Hitbox.OffsetY)
	w.i32(o.Hitbox.Width)
	w.i32(o.Hitbox.Height)
	w.bool(o.Hitbox.Active)
	w.i32(o.HitDamage)
	w.i32(o.HitStun)
	w.i32(o.Lifetime)
	w.i32(o.Parent)
	w.i32(o.Target)
	w.u32(uint32(o.Flags))
}

func decodeObject(r *reader, o *battle.SimObject) {
	o.PosX = r.i32()
	o.PosY = r.i32()
	o.SpeedX = r.i32()
	o.SpeedY = r.i32()
	o.Gravity = r.i32()
	o.Facing = r.i32()
	o.Kind = battle.Kind(r.u8())
	o.Side = r.i32()
	o.StateID = battle.StateID(r.i32())
	o.ActionTime = r.i32()
	o.Hitstop = r.i32()
	o.PushWidth = r.i32()
	o.PushHeight = r.i32()
	o.Hitbox.OffsetX = r.i32()
	o.Hitbox.OffsetY = r.i32()
	o.Hitbox.Width = r.i32()
	o.Hitbox.Height = r.i32()
	o.Hitbox.Active = r.bool()
	o.HitDamage = r.i32()
	o.HitStun = r.i32()
	o.Lifetime = r.i32()
	o.Parent = r.i32()
	o.Target = r.i32()
	o.Flags = battle.ObjectFlags(r.u32())
}

func encodePlayer(w *writer, p *battle.PlayerState) {
	w.i32(p.Slot)
	w.i32(p.Side)
	w.i32(p.TeamIndex)
	w.i32(p.Health)
	w.i32(p.MaxHealth)
	w.i32(p.Hitstun)
	w.i32(p.Blockstun)
	w.i32(p.ComboCounter)
	w.i32(p.ComboTimer)
	w.i32(int32(p.Input))
	for _, v := range p.InputBuffer {
		w.i32(int32(v))
	}
	w.i32(p.Enemy)
	w.u32(uint32(p.Flags))
}

func decodePlayer(r *reader, p *battle.PlayerState) {
	p.Slot = r.i32()
	p.Side = r.i32()
	p.TeamIndex = r.i32()
	p.Health = r.i32()
	p.MaxHealth = r.i32()
	p.Hitstun = r.i32()
	p.Blockstun = r.i32()
	p.ComboCounter = r.i32()
	p.ComboTimer = r.i32()
	p.Input = input.Value(r.i32())
	for i := range p.InputBuffer {
		p.InputBuffer[i] = input.Value(r.i32())
	}
	p.Enemy = r.i32()
	p.Flags = battle.PlayerFlags(r.u32())
}
