package emu

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"

	"sict/emu/log"
	"sict/hw/hwdefs"
	"sict/sl/configtimer"
)

type Config struct {
	Clock   ClockConfig   `toml:"clock"`
	UC      UCConfig      `toml:"uc"`
	Scope   ScopeConfig   `toml:"scope"`
	Monitor MonitorConfig `toml:"monitor"`
}

type ClockConfig struct {
	// CT base clock, in Hz.
	BaseHz uint32 `toml:"base_hz"`
}

// UCConfig holds the Universal Configuration: when enabled, the timer
// configuration below replaces the one programmed by the application.
type UCConfig struct {
	Enabled bool               `toml:"enabled"`
	Timer   configtimer.Config `toml:"timer"`
}

type ScopeConfig struct {
	SampleRate uint32 `toml:"sample_rate"`
}

type MonitorConfig struct {
	Addr string `toml:"addr"`
	// Number of trace events buffered per client. Events are dropped when
	// a client lags behind.
	Buffer int `toml:"buffer"`
}

func DefaultConfig() Config {
	return Config{
		Clock: ClockConfig{BaseHz: hwdefs.DefaultCTClock},
		UC: UCConfig{
			Timer: configtimer.Config{
				Counter0: configtimer.CounterConfig{Periodic: true, Direction: configtimer.Up},
				Counter1: configtimer.CounterConfig{Periodic: true, Direction: configtimer.Up},
			},
		},
		Scope:   ScopeConfig{SampleRate: 48000},
		Monitor: MonitorConfig{Addr: "localhost:7777", Buffer: 1024},
	}
}

// TimerOptions returns the timer driver options for this configuration.
func (cfg *Config) TimerOptions() configtimer.Options {
	return configtimer.Options{
		UC:        cfg.UC.Enabled,
		UCConfig:  cfg.UC.Timer,
		BaseClock: cfg.Clock.BaseHz,
	}
}

// ConfigDir returns the sict config directory, creating it if needed.
var ConfigDir = sync.OnceValue(func() string {
	base, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to locate user config directory: %v", err)
	}
	dir := filepath.Join(base, "sict")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the sict config
// directory, or provides the default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfigFile(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.ModEmu.WarnZ("invalid config, using defaults").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// LoadConfigFile loads the configuration at path. Settings missing from the
// file keep their default value.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "load config %s", path)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").Stringer("key", key).End()
	}
	if cfg.Clock.BaseHz < 1_000_000 {
		return DefaultConfig(), errors.Errorf("load config %s: base clock %d Hz is below 1 MHz", path, cfg.Clock.BaseHz)
	}
	return cfg, nil
}

// SaveConfig into the sict config directory.
func SaveConfig(cfg Config) error {
	return SaveConfigFile(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func SaveConfigFile(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return errors.Wrap(err, "save config")
	}
	return nil
}
