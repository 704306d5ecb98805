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

package driver

import (
	"errors"
	"fmt"

	"github.com/nightskyengine/rollback/assert"
	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/digest"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/logger"
	"github.com/nightskyengine/rollback/notifications"
	"github.com/nightskyengine/rollback/rewind"
	"github.com/nightskyengine/rollback/session"
)

// Driver runs the simulation one frame at a time against a network session.
// A Driver must only be used from a single goroutine.
type Driver struct {
	cfg   Config
	sess  session.Session
	local LocalSource

	ctx       *battle.Context
	rewind    *rewind.Rewind
	inputs    *input.Store
	validator *digest.Validator
	match     *digest.Match

	state State

	// the terminal error once the driver is disconnected or aborted
	err error

	// the most recently committed frame
	frame int

	// the most recent frame for which local input has been read
	localFrame int

	// the most recent frame given to the recorder and considered for
	// checksum submission
	lastConfirmed int

	presenters []Presenter
	recorder   Recorder
	notify     notifications.Notify

	// the first frame of the current timeline at which the match is over.
	// zero while the match is not over
	overFrame int

	// the match is over at a frame that will not be resimulated
	matchOver bool

	degraded  bool
	stalled   bool
	stats     NetworkStats
	goroutine assert.Owner
}

// NewDriver is the preferred method of initialisation for the Driver type.
func NewDriver(cfg Config, sess session.Session, local LocalSource) (*Driver, error) {
	cfg.normalise()

	if sess == nil {
		return nil, fmt.Errorf("driver: no session")
	}
	if local == nil {
		return nil, fmt.Errorf("driver: no local input source")
	}
	if cfg.LocalPlayer < 0 || cfg.LocalPlayer >= input.NumPlayers {
		return nil, fmt.Errorf("driver: invalid local player (%d)", cfg.LocalPlayer)
	}

	d := &Driver{
		cfg:       cfg,
		sess:      sess,
		local:     local,
		ctx:       battle.NewContext(cfg.Setup),
		validator: digest.NewValidator(cfg.HistoryLength),
		match:     digest.NewMatch(),
		notify:    notifications.Discard,
	}

	for _, e := range cfg.Extensions {
		if err := d.ctx.AddExtension(e); err != nil {
			return nil, fmt.Errorf("driver: %w", err)
		}
	}

	var err error

	d.rewind, err = rewind.NewRewind(cfg.Horizon)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}

	d.inputs, err = input.NewStore(cfg.Horizon)
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}

	return d, nil
}

// AddPresenter adds a collaborator to be given a view of every committed
// frame.
func (d *Driver) AddPresenter(p Presenter) {
	d.presenters = append(d.presenters, p)
}

// AttachRecorder sets the recorder for confirmed frames. A nil recorder
// removes any existing recorder.
func (d *Driver) AttachRecorder(r Recorder) {
	d.recorder = r
}

// SetNotify sets the recipient of notices. A nil value discards notices.
func (d *Driver) SetNotify(n notifications.Notify) {
	if n == nil {
		n = notifications.Discard
	}
	d.notify = n
}

// State returns the current state of the driver.
func (d *Driver) State() State {
	return d.state
}

// Frame returns the most recently committed frame.
func (d *Driver) Frame() int {
	return d.frame
}

// ConfirmedThrough returns the highest frame for which every input is
// confirmed.
func (d *Driver) ConfirmedThrough() int {
	return d.inputs.ConfirmedThrough()
}

// View returns a read-only view of the current simulation state.
func (d *Driver) View() battle.View {
	return d.ctx.View()
}

// Checksum returns the local checksum of a frame, if it is still known.
func (d *Driver) Checksum(frame int) (uint64, bool) {
	return d.validator.Local(frame)
}

// MatchDigest returns the digest of every confirmed frame so far.
func (d *Driver) MatchDigest() string {
	return d.match.Hash()
}

// Timeline returns a summary of the rewind history.
func (d *Driver) Timeline() rewind.Timeline {
	return d.rewind.GetTimeline()
}

// Stats returns the network statistics.
func (d *Driver) Stats() NetworkStats {
	s := d.stats
	ss := d.sess.Stats()
	s.Ping = ss.RoundTrip
	s.RollbackFrames = ss.RollbackFrames
	if s.RollbackFrames == 0 {
		s.RollbackFrames = session.FramesForLatency(ss.RoundTrip, d.cfg.TickRate)
	}
	return s
}

// Err returns the terminal error of a disconnected or aborted driver.
func (d *Driver) Err() error {
	return d.err
}

// Start the driver. Frame zero, the initial state of the match, is saved.
func (d *Driver) Start() error {
	if d.state != Idle {
		return ErrAlreadyStarted
	}
	if err := d.commit(0); err != nil {
		_, err = d.abort(err)
		return err
	}
	d.state = Collecting
	logger.Logf(d.cfg.Log, "driver", "started as player %d with horizon %d", d.cfg.LocalPlayer, d.cfg.Horizon)
	return nil
}

// Tick performs one real-time tick of the simulation. The tick either
// advances the simulation by one frame or stalls waiting for remote input.
func (d *Driver) Tick() (Result, error) {
	d.goroutine.Check("driver")

	switch d.state {
	case Idle:
		return Result{}, ErrNotStarted
	case Disconnected, Aborted:
		return Result{Frame: d.frame}, d.err
	}

	if d.sess.Status() == session.Disconnected {
		return d.disconnect()
	}

	res := Result{Frame: d.frame}

	// collecting
	d.state = Collecting
	for _, ci := range d.sess.PollConfirmedInputs() {
		if ci.Player == d.cfg.LocalPlayer {
			return d.abort(fmt.Errorf("remote input for local player %d at frame %d", ci.Player, ci.Frame))
		}
		if err := d.inputs.RecordRemote(ci.Frame, ci.Player, ci.Value, true); err != nil {
			return d.abort(err)
		}
	}
	for _, pc := range d.sess.PollPeerChecksums() {
		d.validator.AddPeer(pc.Frame, pc.Hash)
	}

	next := d.frame + 1
	if d.localFrame < next {
		v := d.local.LocalInput(next)
		if err := d.inputs.RecordLocal(next, d.cfg.LocalPlayer, v); err != nil {
			return d.abort(err)
		}
		if err := d.sess.SubmitLocalInput(next, v); err != nil {
			if errors.Is(err, session.ErrClosed) {
				return d.disconnect()
			}
			logger.Logf(d.cfg.Log, "driver", "submit input: %v", err)
		}
		d.localFrame = next
	}

	// refuse to predict so far ahead that a rollback target could fall
	// outside of the horizon
	if next-d.inputs.ConfirmedThrough() > d.rewind.Horizon()-1 {
		res.Stalled = true
		d.stats.Stalls++
		if !d.stalled {
			d.stalled = true
			logger.Logf(d.cfg.Log, "driver", "stalled at frame %d waiting for input", next)
			d.notice(notifications.NotifyStall, next)
		}
		d.verify(&res)
		d.checkConnection()
		d.checkMatchOver()
		d.state = Collecting
		return res, nil
	}
	d.stalled = false

	// deciding
	d.state = Deciding
	if f, ok := d.inputs.FirstDivergentFrame(); ok && f <= d.frame {
		d.state = RollingBack
		if err := d.rollback(f); err != nil {
			return d.abort(err)
		}
		res.RollbackFrom = f
		res.RolledBack = d.frame - f + 1
		d.stats.Rollbacks++
		d.stats.Resimulated += res.RolledBack
		logger.Logf(d.cfg.Log, "driver", "rollback: resimulated %d frames from frame %d", res.RolledBack, f)
		d.notice(notifications.NotifyRollback, f)
	}

	// advancing
	d.state = Advancing
	if err := d.step(next); err != nil {
		return d.abort(err)
	}
	if err := d.commit(next); err != nil {
		return d.abort(err)
	}
	d.frame = next
	d.state = Committed
	res.Frame = next

	if err := d.confirm(&res); err != nil {
		return d.abort(err)
	}
	d.verify(&res)
	d.checkConnection()

	v := d.ctx.View()
	for _, p := range d.presenters {
		p.Present(v)
	}

	d.checkMatchOver()

	d.state = Collecting
	return res, nil
}

// checkMatchOver sends the match over notice once the frame at which the match
// ended can no longer be resimulated. a match that is over only in predicted
// frames may yet continue
func (d *Driver) checkMatchOver() {
	if d.matchOver || d.overFrame == 0 || d.overFrame > d.settled() {
		return
	}
	d.matchOver = true
	logger.Logf(d.cfg.Log, "driver", "match over at frame %d. winner %d", d.overFrame, d.ctx.Battle.Winner)
	d.notice(notifications.NotifyMatchOver, d.overFrame)
}

// MatchOver returns true once the end of the match has been confirmed. The
// battle state in View() can show the match as over before this is true.
func (d *Driver) MatchOver() bool {
	return d.matchOver
}

// MatchOverFrame returns the frame at which the match ended. The frame is zero
// until MatchOver() is true.
func (d *Driver) MatchOverFrame() int {
	if !d.matchOver {
		return 0
	}
	return d.overFrame
}

// step advances the simulation with the inputs for the frame
func (d *Driver) step(frame int) error {
	pair, err := d.inputs.Pair(frame)
	if err != nil {
		return err
	}
	d.ctx.Advance(pair)
	if d.ctx.Frame() != frame {
		return fmt.Errorf("simulation at frame %d after advancing to frame %d", d.ctx.Frame(), frame)
	}
	return nil
}

// commit saves the current state as the frame and records its checksum
func (d *Driver) commit(frame int) error {
	if err := d.rewind.Save(frame, d.ctx); err != nil {
		return err
	}
	b, err := d.rewind.Bytes(frame)
	if err != nil {
		return err
	}
	d.validator.Record(frame, digest.Checksum(b))

	// the match over flag stays set once it is set so the first frame with
	// the flag is the frame at which the match ended
	if d.overFrame == 0 && d.ctx.Battle.MatchOver {
		d.overFrame = frame
	}
	return nil
}

// rollback restores the frame before the divergent frame and resimulates
// every frame up to the current frame
func (d *Driver) rollback(divergent int) error {
	if err := d.rewind.Load(divergent-1, d.ctx); err != nil {
		return err
	}
	if d.overFrame >= divergent {
		d.overFrame = 0
	}
	for f := divergent; f <= d.frame; f++ {
		if err := d.step(f); err != nil {
			return err
		}
		if err := d.commit(f); err != nil {
			return err
		}
	}
	return nil
}

// confirm deals with frames that have been confirmed since the last tick. the
// checksums of these frames will not change again
func (d *Driver) confirm(res *Result) error {
	through := min(d.inputs.ConfirmedThrough(), d.frame)

	for f := d.lastConfirmed + 1; f <= through; f++ {
		hash, ok := d.validator.Local(f)
		if !ok {
			b, err := d.rewind.Bytes(f)
			if err != nil {
				return fmt.Errorf("no checksum for confirmed frame %d: %w", f, err)
			}
			hash = digest.Checksum(b)
		}

		d.match.AddFrame(hash)

		if f%d.cfg.ChecksumInterval == 0 {
			if err := d.sess.SubmitChecksum(f, hash); err != nil {
				logger.Logf(d.cfg.Log, "driver", "submit checksum: %v", err)
			} else {
				res.Submitted++
			}
		}

		if d.recorder != nil {
			inputs, ok := d.inputs.Used(f)
			if !ok {
				return fmt.Errorf("no inputs for confirmed frame %d", f)
			}
			if err := d.recorder.RecordFrame(f, inputs, hash); err != nil {
				logger.Logf(d.cfg.Log, "driver", "recorder: %v", err)
				d.recorder = nil
			}
		}

		d.lastConfirmed = f
	}

	return nil
}

// settled returns the most recent frame whose state will not change. this is
// the earlier of the confirmed frame and the current frame, and is before any
// frame waiting to be resimulated
func (d *Driver) settled() int {
	through := min(d.inputs.ConfirmedThrough(), d.frame)
	if f, ok := d.inputs.FirstDivergentFrame(); ok {
		through = min(through, f-1)
	}
	return through
}

// verify compares peer checksums for frames that have been confirmed and
// simulated
func (d *Driver) verify(res *Result) {
	through := d.settled()
	for _, r := range d.validator.Verify(through, d.rewind) {
		switch {
		case !r.Verifiable:
			res.Unverifiable++
			d.notice(notifications.NotifyUnverifiable, r.Frame)
		case !r.Match:
			res.Desyncs = append(res.Desyncs, r)
			logger.Logf(d.cfg.Log, "driver", "desync: %s", r)
			d.notice(notifications.NotifyDesync, r.Frame)
		}
	}
}

// checkConnection looks for a change in the quality of the connection
func (d *Driver) checkConnection() {
	if d.cfg.HighPingThreshold <= 0 {
		return
	}
	rtt := d.sess.Stats().RoundTrip
	high := rtt > d.cfg.HighPingThreshold
	if high == d.degraded {
		return
	}
	d.degraded = high
	if high {
		logger.Logf(d.cfg.Log, "driver", "connection degraded: round trip %v", rtt)
		d.notice(notifications.NotifyDegraded, d.frame)
	} else {
		logger.Logf(d.cfg.Log, "driver", "connection recovered: round trip %v", rtt)
		d.notice(notifications.NotifyRecovered, d.frame)
	}
}

// Degraded returns true if the round trip time is above the threshold.
func (d *Driver) Degraded() bool {
	return d.degraded
}

func (d *Driver) notice(n notifications.Notice, frame int) {
	if err := d.notify.Notify(n, frame); err != nil {
		logger.Logf(d.cfg.Log, "driver", "notify: %v", err)
	}
}

func (d *Driver) disconnect() (Result, error) {
	d.state = Disconnected
	d.err = ErrDisconnected
	logger.Logf(d.cfg.Log, "driver", "disconnected at frame %d", d.frame)
	d.notice(notifications.NotifyDisconnect, d.frame)
	return Result{Frame: d.frame}, d.err
}

func (d *Driver) abort(err error) (Result, error) {
	d.state = Aborted
	d.err = fmt.Errorf("%w: %w", ErrAborted, err)
	logger.Log(d.cfg.Log, "driver", d.err)
	d.notice(notifications.NotifyAbort, d.frame)
	return Result{Frame: d.frame}, d.err
}
