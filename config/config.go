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

package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nightskyengine/rollback/battle"
	"github.com/nightskyengine/rollback/driver"
)

// EnvPrefix is the prefix of every environment variable read by Load().
const EnvPrefix = "NIGHTSKY_"

// Sentinel errors.
var (
	ErrUnknownKey = errors.New("config: unknown key")
	ErrInvalid    = errors.New("config: invalid setting")
)

// Config is the complete set of settings.
type Config struct {
	Horizon           int           `env:"HORIZON" envDefault:"8"`
	TickRate          int           `env:"TICK_RATE" envDefault:"60"`
	ChecksumInterval  int           `env:"CHECKSUM_INTERVAL" envDefault:"10"`
	HistoryLength     int           `env:"CHECKSUM_HISTORY" envDefault:"120"`
	HighPingThreshold time.Duration `env:"HIGH_PING" envDefault:"150ms"`

	RoundFormat string `env:"ROUND_FORMAT" envDefault:"FirstToTwo"`
	RoundTime   int    `env:"ROUND_TIME" envDefault:"99"`
	Seed        uint32 `env:"SEED" envDefault:"624350353"`

	// comma separated names of the battle extensions to use. both peers must
	// use the same extensions
	Extensions string `env:"EXTENSIONS"`

	// artificial delay in frames of the loopback session used by LOCAL mode
	LoopbackDelay int `env:"LOOPBACK_DELAY" envDefault:"3"`

	// frames a terminal key press is held for
	KeyHold int `env:"KEY_HOLD" envDefault:"6"`

	// directory for replay files. empty for no recording
	ReplayDir string `env:"REPLAY_DIR"`
}

// Load settings from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Default returns the settings used when nothing is specified.
func Default() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{},
	})
	return cfg
}

// setting describes how to get and set one value with a prefs key
type setting struct {
	get func(cfg *Config) string
	set func(cfg *Config, v string) error
}

func intSetting(field func(cfg *Config) *int) setting {
	return setting{
		get: func(cfg *Config) string {
			return strconv.Itoa(*field(cfg))
		},
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*field(cfg) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	"rollback.horizon":  intSetting(func(cfg *Config) *int { return &cfg.Horizon }),
	"tick.rate":         intSetting(func(cfg *Config) *int { return &cfg.TickRate }),
	"checksum.interval": intSetting(func(cfg *Config) *int { return &cfg.ChecksumInterval }),
	"checksum.history":  intSetting(func(cfg *Config) *int { return &cfg.HistoryLength }),
	"round.time":        intSetting(func(cfg *Config) *int { return &cfg.RoundTime }),
	"loopback.delay":    intSetting(func(cfg *Config) *int { return &cfg.LoopbackDelay }),
	"keyboard.hold":     intSetting(func(cfg *Config) *int { return &cfg.KeyHold }),
	"network.highping": {
		get: func(cfg *Config) string {
			return cfg.HighPingThreshold.String()
		},
		set: func(cfg *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			cfg.HighPingThreshold = d
			return nil
		},
	},
	"round.format": {
		get: func(cfg *Config) string {
			return cfg.RoundFormat
		},
		set: func(cfg *Config, v string) error {
			cfg.RoundFormat = v
			return nil
		},
	},
	"round.seed": {
		get: func(cfg *Config) string {
			return strconv.FormatUint(uint64(cfg.Seed), 10)
		},
		set: func(cfg *Config, v string) error {
			n, err := strconv.ParseUint(v, 0, 32)
			if err != nil {
				return err
			}
			cfg.Seed = uint32(n)
			return nil
		},
	},
	"battle.extensions": {
		get: func(cfg *Config) string {
			return cfg.Extensions
		},
		set: func(cfg *Config, v string) error {
			cfg.Extensions = v
			return nil
		},
	},
	"replay.dir": {
		get: func(cfg *Config) string {
			return cfg.ReplayDir
		},
		set: func(cfg *Config, v string) error {
			cfg.ReplayDir = v
			return nil
		},
	},
}

// Keys returns the keys accepted by Override() in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Override settings with a prefs string. Entries are separated by semicolons
// and each entry is a key and value separated by a double colon.
func (cfg *Config) Override(prefs string) error {
	for _, p := range strings.Split(prefs, ";") {
		if strings.TrimSpace(p) == "" {
			continue
		}

		kv := strings.Split(p, "::")
		if len(kv) != 2 {
			return fmt.Errorf("%w: %q is not of the form key::value", ErrInvalid, strings.TrimSpace(p))
		}

		key := strings.TrimSpace(kv[0])
		s, ok := settings[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if err := s.set(cfg, strings.TrimSpace(kv[1])); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
		}
	}
	return nil
}

// String returns the settings as a prefs string. The string can be given to
// Override() to recreate the settings.
func (cfg Config) String() string {
	s := strings.Builder{}
	for _, key := range Keys() {
		s.WriteString(fmt.Sprintf("%s::%s; ", key, settings[key].get(&cfg)))
	}
	return strings.TrimSuffix(s.String(), "; ")
}

// Validate checks that the settings are usable.
func (cfg Config) Validate() error {
	if cfg.Horizon < 1 {
		return fmt.Errorf("%w: rollback horizon must be at least one (%d)", ErrInvalid, cfg.Horizon)
	}
	if cfg.TickRate < 1 {
		return fmt.Errorf("%w: tick rate must be at least one (%d)", ErrInvalid, cfg.TickRate)
	}
	if cfg.ChecksumInterval < 1 {
		return fmt.Errorf("%w: checksum interval must be at least one (%d)", ErrInvalid, cfg.ChecksumInterval)
	}
	if cfg.HistoryLength < cfg.Horizon {
		return fmt.Errorf("%w: checksum history (%d) must be at least the rollback horizon (%d)", ErrInvalid, cfg.HistoryLength, cfg.Horizon)
	}
	if cfg.HighPingThreshold < 0 {
		return fmt.Errorf("%w: high ping threshold is negative", ErrInvalid)
	}
	if cfg.RoundTime < 0 {
		return fmt.Errorf("%w: round time is negative", ErrInvalid)
	}
	if cfg.LoopbackDelay < 0 {
		return fmt.Errorf("%w: loopback delay is negative", ErrInvalid)
	}
	if cfg.KeyHold < 1 {
		return fmt.Errorf("%w: key hold must be at least one (%d)", ErrInvalid, cfg.KeyHold)
	}
	if _, err := battle.ParseRoundFormat(cfg.RoundFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := cfg.BattleExtensions(); err != nil {
		return err
	}
	return nil
}

// BattleExtensions returns the battle extensions named by the settings.
func (cfg Config) BattleExtensions() ([]battle.Extension, error) {
	var ext []battle.Extension
	for _, name := range strings.Split(cfg.Extensions, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e, err := battle.LookupExtension(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		ext = append(ext, e)
	}
	if len(ext) > battle.MaxExtensions {
		return nil, fmt.Errorf("%w: %d extensions named. the most is %d", ErrInvalid, len(ext), battle.MaxExtensions)
	}
	return ext, nil
}

// Setup returns the battle setup described by the settings.
func (cfg Config) Setup() (battle.Setup, error) {
	f, err := battle.ParseRoundFormat(cfg.RoundFormat)
	if err != nil {
		return battle.Setup{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return battle.Setup{
		RoundFormat: f,
		RoundTime:   cfg.RoundTime,
		Seed:        cfg.Seed,
	}, nil
}

// Driver returns the configuration for a frame driver controlling the player.
func (cfg Config) Driver(localPlayer int) (driver.Config, error) {
	setup, err := cfg.Setup()
	if err != nil {
		return driver.Config{}, err
	}
	ext, err := cfg.BattleExtensions()
	if err != nil {
		return driver.Config{}, err
	}
	return driver.Config{
		Setup:             setup,
		Extensions:        ext,
		Horizon:           cfg.Horizon,
		LocalPlayer:       localPlayer,
		ChecksumInterval:  cfg.ChecksumInterval,
		HistoryLength:     cfg.HistoryLength,
		HighPingThreshold: cfg.HighPingThreshold,
		TickRate:          cfg.TickRate,
	}, nil
}
