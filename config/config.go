// Package config loads themis.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/themis/project"
)

// FileName is looked up in the analysed directory when no path is given.
const FileName = "themis.toml"

type Config struct {
	Analysis Analysis `toml:"analysis"`
	Resolve  Resolve  `toml:"resolve"`
	Log      Log      `toml:"log"`
	Metrics  Metrics  `toml:"metrics"`
	Store    Store    `toml:"store"`
	Watch    Watch    `toml:"watch"`
}

type Analysis struct {
	Exclude     []string `toml:"exclude"`
	StopOnError bool     `toml:"stop_on_error"`
}

type Resolve struct {
	// HiddenChildren maps a nested type name to the type declaring it.
	HiddenChildren map[string]string `toml:"hidden_children"`
}

type Log struct {
	// Verbosity follows commonlog: 0 is errors only, 2 adds info, 4 debug.
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Store struct {
	Path string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the file at path and fills in defaults. A missing file is not
// an error when optional is set.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML document.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Resolve.HiddenChildren == nil {
		cfg.Resolve.HiddenChildren = make(map[string]string, len(project.DefaultHiddenChildren))
		for name, enclosing := range project.DefaultHiddenChildren {
			cfg.Resolve.HiddenChildren[name] = enclosing
		}
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if strings.TrimSpace(cfg.Metrics.Addr) == "" {
		cfg.Metrics.Addr = "127.0.0.1:9464"
	}
}

func validate(cfg *Config) error {
	for _, pattern := range cfg.Analysis.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("analysis.exclude: invalid pattern %q", pattern)
		}
	}
	if cfg.Log.Verbosity < 0 {
		return errors.New("log.verbosity must not be negative")
	}
	return nil
}

// ProjectOptions returns the analysis options of cfg.
func (cfg *Config) ProjectOptions() project.Options {
	return project.Options{
		Exclude:        cfg.Analysis.Exclude,
		HiddenChildren: cfg.Resolve.HiddenChildren,
		StopOnError:    cfg.Analysis.StopOnError,
	}
}
