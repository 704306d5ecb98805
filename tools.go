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
	"fmt"
	"os"

	"github.com/nightskyengine/rollback/bots"
	"github.com/nightskyengine/rollback/comparison"
	"github.com/nightskyengine/rollback/input"
	"github.com/nightskyengine/rollback/inspect"
	"github.com/nightskyengine/rollback/modalflag"
	"github.com/nightskyengine/rollback/recorder"
	"github.com/nightskyengine/rollback/synctest"
)

// mashed returns inputs for both players from two masher bots
func mashed(seed uint32) func(frame int) [input.NumPlayers]input.Value {
	var m [input.NumPlayers]*bots.Masher
	for p := range m {
		m[p] = bots.NewMasher(seed + uint32(p))
	}
	return func(frame int) [input.NumPlayers]input.Value {
		var v [input.NumPlayers]input.Value
		for p := range v {
			v[p] = m[p].LocalInput(frame)
		}
		return v
	}
}

func syncTest(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	frames := md.AddInt("frames", 3600, "number of frames to simulate")
	distance := md.AddInt("distance", 1, "number of frames to roll back every frame")
	compare := md.AddBool("compare", false, "also run two simulations side by side")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	cfg, err := c.settings()
	if err != nil {
		return err
	}
	setup, err := cfg.Setup()
	if err != nil {
		return err
	}

	return c.run(func() error {
		st, err := synctest.NewSyncTest(setup, cfg.Horizon, *distance)
		if err != nil {
			return err
		}
		err = st.Run(*frames, mashed(cfg.Seed))
		fmt.Printf("%d frames simulated, %d resimulated\n", st.Frame(), st.Resimulated())
		if err != nil {
			return err
		}
		fmt.Println("no desync")

		if !*compare {
			return nil
		}

		cmp := comparison.NewComparison(setup)
		defer cmp.Quit()
		res, err := cmp.Run(*frames, mashed(cfg.Seed))
		if err != nil {
			return err
		}
		fmt.Println(res)
		if res.FirstMismatch != 0 {
			return fmt.Errorf("simulations differ: %s", res)
		}
		return nil
	})
}

func openPlayback(filename string) (*recorder.Playback, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return recorder.NewPlayback(f)
}

func verify(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("replay file required for %s mode", md)
	case 1:
		plb, err := openPlayback(md.GetArg(0))
		if err != nil {
			return err
		}
		h := plb.Header()
		fmt.Printf("match %s: %s, %d frames\n", h.Match, h.Setup.RoundFormat, plb.EndFrame())
		if err := plb.Verify(); err != nil {
			return err
		}
		fmt.Printf("%s verified\n", plb)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	c := addCommon(md)
	frame := md.AddInt("frame", 600, "frame to dump")
	summary := md.AddBool("summary", false, "write a text summary instead of graphviz")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	write := inspect.Dump
	if *summary {
		write = inspect.Summary
	}

	switch len(md.RemainingArgs()) {
	case 0:
		// no replay. simulate with masher input
		cfg, err := c.settings()
		if err != nil {
			return err
		}
		setup, err := cfg.Setup()
		if err != nil {
			return err
		}
		st, err := synctest.NewSyncTest(setup, cfg.Horizon, 1)
		if err != nil {
			return err
		}
		if err := st.Run(*frame, mashed(cfg.Seed)); err != nil {
			return err
		}
		return write(os.Stdout, st.View())

	case 1:
		plb, err := openPlayback(md.GetArg(0))
		if err != nil {
			return err
		}
		if *frame > plb.EndFrame() {
			return fmt.Errorf("replay ends at frame %d", plb.EndFrame())
		}
		if err := plb.RunTo(*frame); err != nil {
			return err
		}
		return write(os.Stdout, plb.View())
	}

	return fmt.Errorf("too many arguments for %s mode", md)
}
