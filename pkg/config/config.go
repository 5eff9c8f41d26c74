// Package config loads flowdeck's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/flowdeck/config.toml (falling back to
// ~/.config/flowdeck/config.toml). A missing file yields [Default]; keys
// present in the file override the defaults one by one:
//
//	[snap]
//	element_range = 20
//	connection_point_range = 10
//	detach_velocity = 5
//	marker_size = 3
//
//	[canvas]
//	nudge_step = 8
//	paste_offset = 20
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/flowdeck/documents.db"
//
//	[log]
//	level = "debug"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/snap"
	"github.com/matzehuels/flowdeck/pkg/store"
)

// Config is the complete configuration.
type Config struct {
	Snap   snap.Config   `toml:"snap"`
	Canvas Canvas        `toml:"canvas"`
	Store  store.Options `toml:"store"`
	Log    Log           `toml:"log"`
}

// Canvas holds editing tunables.
type Canvas struct {
	// NudgeStep is the distance one arrow-key press moves the selection.
	NudgeStep int `toml:"nudge_step"`
	// PasteOffset shifts pasted elements away from their originals. 0
	// pastes in place.
	PasteOffset int `toml:"paste_offset"`
}

// Log holds logging settings.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Snap:   snap.DefaultConfig(),
		Canvas: Canvas{NudgeStep: 8, PasteOffset: 20},
		Store:  store.DefaultOptions(),
		Log:    Log{Level: "info"},
	}
}

// Path returns the default configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flowdeck", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "flowdeck", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means [Path].
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, ferrors.New(ferrors.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Snap.Validate(); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "snap")
	}
	if c.Canvas.NudgeStep <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "canvas: nudge_step must be positive, got %d", c.Canvas.NudgeStep)
	}
	if c.Canvas.PasteOffset < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "canvas: paste_offset must not be negative, got %d", c.Canvas.PasteOffset)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "log: level")
	}
	return lvl, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteFile writes c to path, creating parent directories.
func (c Config) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
