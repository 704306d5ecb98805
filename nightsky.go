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
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/nightskyengine/rollback/config"
	"github.com/nightskyengine/rollback/logger"
	"github.com/nightskyengine/rollback/modalflag"
	"github.com/nightskyengine/rollback/profiling"
	"github.com/nightskyengine/rollback/statsview"
)

// exit values
const (
	exitOK    = 0
	exitParse = 10
	exitMode  = 20
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:])
	stop()
	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. returns the exit
// value for the process
func launch(ctx context.Context, args []string) int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubMode("PLAY", "network match against a peer")
	md.AddSubMode("LOCAL", "match against a bot over a loopback session")
	md.AddSubMode("SYNCTEST", "check that resimulation is deterministic")
	md.AddSubMode("VERIFY", "replay a recorded match and check every checksum")
	md.AddSubMode("DUMP", "write the state of a match as a graphviz document")
	md.AdditionalHelp(fmt.Sprintf("Settings are read from %s* environment variables and\ncan be overridden with the -prefs flag of each mode.", config.EnvPrefix))

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		return exitParse
	}

	switch md.Mode() {
	case "PLAY":
		err = play(ctx, md)
	case "LOCAL":
		err = local(ctx, md)
	case "SYNCTEST":
		err = syncTest(md)
	case "VERIFY":
		err = verify(md)
	case "DUMP":
		err = dump(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md, err)
		return exitMode
	}
	return exitOK
}

// common flags are added to every mode that runs a match
type common struct {
	prefs      *string
	log        *bool
	stats      *bool
	cpuProfile *string
}

func addCommon(md *modalflag.Modes) common {
	return common{
		prefs:      md.AddString("prefs", "", "settings overriding the environment (key::value; key::value)"),
		log:        md.AddBool("log", false, "echo log to stderr"),
		stats:      md.AddBool("statsview", false, "run the runtime statistics server"),
		cpuProfile: md.AddString("cpuprofile", "", "write cpu profile to file"),
	}
}

// settings loads the configuration from the environment and applies the
// -prefs flag
func (c common) settings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Override(*c.prefs); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply the ambient flags and then run the function, through the profiler if
// requested
func (c common) run(fn func() error) error {
	if *c.log {
		lr := logrus.New()
		lr.SetOutput(os.Stderr)
		logger.SetEcho(logger.Logrus{Logger: lr})
		defer logger.SetEcho(nil)
	}

	if *c.stats {
		if statsview.Available() {
			statsview.Launch()
		} else {
			logger.Log(logger.Allow, "statsview", "not available in this build")
		}
	}

	return profiling.CPU(*c.cpuProfile, fn)
}
