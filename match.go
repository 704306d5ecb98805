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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/bots"
	"github.com/nightskyengine/rollback/config"
	"github.com/nightskyengine/rollback/driver"
	"github.com/nightskyengine/rollback/limiter"
	"github.com/nightskyengine/rollback/logger"
	"github.com/nightskyengine/rollback/modalflag"
	"github.com/nightskyengine/rollback/notifications"
	"github.com/nightskyengine/rollback/recorder"
	"github.com/nightskyengine/rollback/session"
	"github.com/nightskyengine/rollback/session/loopback"
	"github.com/nightskyengine/rollback/session/wsnet"
	"github.com/nightskyengine/rollback/snapshot"
	"github.com/nightskyengine/rollback/terminput"
)

func play(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	host := md.AddString("host", "", "listen for a peer on address")
	join := md.AddString("join", "", "connect to a peer at websocket url")
	control := md.AddString("control", "keyboard", "local controller: keyboard, masher, chaser")
	device := md.AddString("tty", "/dev/tty", "terminal device for keyboard input")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}
	if (*host == "") == (*join == "") {
		return fmt.Errorf("one of -host or -join is required for %s mode", md)
	}

	cfg, err := c.settings()
	if err != nil {
		return err
	}

	return c.run(func() error {
		var player int
		if *join != "" {
			player = 1
		}

		dcfg, err := cfg.Driver(player)
		if err != nil {
			return err
		}
		opts := wsnet.Options{Setup: dcfg.Setup, Horizon: dcfg.Horizon}
		for _, e := range dcfg.Extensions {
			opts.Extensions = append(opts.Extensions, e.ExtensionName())
		}

		var peer *wsnet.Peer
		if *host != "" {
			fmt.Printf("waiting for peer on %s\n", *host)
			peer, err = wsnet.HostSession(ctx, *host, player, opts)
		} else {
			peer, err = wsnet.Join(ctx, *join, player, opts)
		}
		if err != nil {
			return err
		}
		defer peer.Close()

		// the host decides the match
		dcfg.Setup = peer.Setup()
		dcfg.Horizon = peer.Horizon()

		fmt.Printf("match %s: player %d\n", peer.ID(), player+1)

		ctl, err := newController(*control, player, cfg, *device)
		if err != nil {
			return err
		}
		defer ctl.release()

		d, endRecording, err := newDriver(cfg, dcfg, peer, ctl, peer.ID())
		if err != nil {
			return err
		}
		defer endRecording()
		d.AddPresenter(&hud{every: cfg.TickRate / 4})

		err = runMatch(ctx, cfg.TickRate, ctl.quit, d)
		report(d)
		return err
	})
}

func local(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	control := md.AddString("control", "keyboard", "controller of player one: keyboard, masher, chaser")
	opponent := md.AddString("opponent", "chaser", "controller of player two: masher, chaser")
	device := md.AddString("tty", "/dev/tty", "terminal device for keyboard input")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}
	if strings.EqualFold(*opponent, "keyboard") {
		return fmt.Errorf("the opponent in %s mode must be a bot", md)
	}

	cfg, err := c.settings()
	if err != nil {
		return err
	}

	return c.run(func() error {
		a, b := loopback.NewPair(cfg.LoopbackDelay, [2]int{0, 1})
		defer a.Close()

		ctlA, err := newController(*control, 0, cfg, *device)
		if err != nil {
			return err
		}
		defer ctlA.release()

		ctlB, err := newController(*opponent, 1, cfg, *device)
		if err != nil {
			return err
		}
		defer ctlB.release()

		id := uuid.New()

		dcfgA, err := cfg.Driver(0)
		if err != nil {
			return err
		}
		dA, endRecording, err := newDriver(cfg, dcfgA, a, ctlA, id)
		if err != nil {
			return err
		}
		defer endRecording()
		dA.AddPresenter(&hud{every: cfg.TickRate / 4})

		// the opponent is not recorded
		cfgB := cfg
		cfgB.ReplayDir = ""
		dcfgB, err := cfgB.Driver(1)
		if err != nil {
			return err
		}
		dB, _, err := newDriver(cfgB, dcfgB, b, ctlB, id)
		if err != nil {
			return err
		}

		err = runMatch(ctx, cfg.TickRate, ctlA.quit, dA, dB)
		report(dA)
		if dA.MatchDigest() != dB.MatchDigest() {
			logger.Log(logger.Allow, "local", "match digests differ")
		}
		return err
	})
}

// controller is the source of local input for a driver
type controller struct {
	source  driver.LocalSource
	present driver.Presenter
	quit    <-chan bool
	release func() error
}

func newController(kind string, player int, cfg config.Config, device string) (controller, error) {
	switch strings.ToLower(kind) {
	case "keyboard":
		kb := terminput.NewKeyboard(terminput.DefaultKeymap, cfg.KeyHold)
		if err := kb.Open(device); err != nil {
			return controller{}, err
		}
		return controller{source: kb, quit: kb.Quit(), release: kb.Close}, nil
	case "masher":
		return botController(bots.NewMasher(cfg.Seed + uint32(player))), nil
	case "chaser":
		return botController(bots.NewChaser(player)), nil
	}
	return controller{}, fmt.Errorf("unknown controller: %s", kind)
}

// botController logs the bot's diagnostics until the controller is released
func botController(b bots.Bot) controller {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case d := <-b.Feedback().Diagnostic:
				logger.Logf(logger.Allow, b.BotID(), "%s: %s", d.Group, d.Diagnostic)
			case <-done:
				return
			}
		}
	}()
	return controller{
		source:  b,
		present: b,
		release: func() error {
			close(done)
			return nil
		},
	}
}

// newDriver creates a driver with the driver configuration. the returned
// function ends the recording
func newDriver(cfg config.Config, dcfg driver.Config, sess session.Session, ctl controller, id uuid.UUID) (*driver.Driver, func() error, error) {
	noRecording := func() error { return nil }

	d, err := driver.NewDriver(dcfg, sess, ctl.source)
	if err != nil {
		return nil, noRecording, err
	}
	if ctl.present != nil {
		d.AddPresenter(ctl.present)
	}
	d.SetNotify(notifier(fmt.Sprintf("player %d", dcfg.LocalPlayer+1)))

	if cfg.ReplayDir == "" {
		return d, noRecording, nil
	}

	if err := os.MkdirAll(cfg.ReplayDir, 0o755); err != nil {
		return nil, noRecording, err
	}
	fn := filepath.Join(cfg.ReplayDir, fmt.Sprintf("%s.replay", id))
	f, err := os.Create(fn)
	if err != nil {
		return nil, noRecording, err
	}
	var names []string
	for _, e := range dcfg.Extensions {
		names = append(names, e.ExtensionName())
	}
	rec, err := recorder.NewRecorder(f, recorder.Header{
		Match:        id,
		SnapshotSize: snapshot.Size,
		Setup:        dcfg.Setup,
		Extensions:   strings.Join(names, ","),
	})
	if err != nil {
		return nil, noRecording, err
	}
	d.AttachRecorder(rec)
	logger.Logf(logger.Allow, "recorder", "recording to %s", fn)

	return d, rec.End, nil
}

func notifier(tag string) notifications.Notify {
	return notifications.NotifyFunc(func(notice notifications.Notice, frame int) error {
		logger.Logf(logger.Allow, tag, "%s at frame %d", notice, frame)
		return nil
	})
}

// runMatch ticks the drivers at the tick rate until the match is over, the
// context is cancelled or the quit channel is closed. the match is over once
// every driver has confirmed the end of the match. ticking continues for a
// second after that so that a peer can confirm the end of the match too
func runMatch(ctx context.Context, tickRate int, quit <-chan bool, drivers ...*driver.Driver) error {
	lim, err := limiter.NewFPSLimiter(tickRate)
	if err != nil {
		return err
	}
	defer lim.Stop()

	for _, d := range drivers {
		if err := d.Start(); err != nil {
			return err
		}
	}

	var linger int
	for {
		select {
		case <-quit:
			return nil
		default:
		}

		if err := lim.WaitContext(ctx); err != nil {
			return nil
		}

		over := true
		for _, d := range drivers {
			if _, err := d.Tick(); err != nil {
				// a peer that has seen the end of the match will leave
				if errors.Is(err, driver.ErrDisconnected) && d.MatchOver() {
					continue
				}
				return err
			}
			over = over && d.MatchOver()
		}
		if !over {
			continue
		}
		if linger == 0 {
			logger.Logf(logger.Allow, "match", "over at frame %d. %.1f ticks per second", drivers[0].MatchOverFrame(), lim.Measured())
		}
		linger++
		if linger > tickRate {
			return nil
		}
	}
}

func report(d *driver.Driver) {
	s := d.Stats()
	fmt.Printf("\nframe %d (confirmed %d)\n", d.Frame(), d.ConfirmedThrough())
	fmt.Printf("rollbacks %d (%d frames) stalls %d ping %s\n", s.Rollbacks, s.Resimulated, s.Stalls, s.Ping)
	fmt.Printf("match digest %s\n", d.MatchDigest())
	if b := d.View().Battle(); d.MatchOver() {
		if b.Winner == battle.NoSlot {
			fmt.Println("draw")
		} else {
			fmt.Printf("winner: side %d\n", b.Winner+1)
		}
	}
}

// hud prints a status line to stdout
type hud struct {
	pres  battle.Presentation
	every int
}

func (h *hud) Present(v battle.View) {
	h.pres.Update(v)
	if h.every > 0 && v.Frame()%h.every != 0 {
		return
	}
	b := v.Battle()
	p0, _ := v.MainPlayer(0)
	p1, _ := v.MainPlayer(1)
	fmt.Printf("\rframe %6d  round %d  timer %3d  %4d | %-4d  rounds %d-%d  camera %6d ",
		v.Frame(), b.RoundCount, b.RoundTimer, p0.Health, p1.Health,
		b.RoundsWon[0], b.RoundsWon[1], h.pres.CameraPosition)
}
