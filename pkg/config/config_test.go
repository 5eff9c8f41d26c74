package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/snap"
	"github.com/matzehuels/flowdeck/pkg/store"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Snap != snap.DefaultConfig() {
		t.Errorf("Snap = %+v, want defaults", cfg.Snap)
	}
	if cfg.Store.Backend != store.BackendFile {
		t.Errorf("Store.Backend = %q, want file", cfg.Store.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load of missing file = %+v, want defaults", cfg)
	}
}

func TestReadOverridesDefaults(t *testing.T) {
	src := `
[snap]
detach_velocity = 9

[canvas]
nudge_step = 4

[store]
backend = "sqlite"
path = "/tmp/docs.db"

[log]
level = "debug"
`
	cfg, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Snap.DetachVelocity != 9 {
		t.Errorf("DetachVelocity = %d, want 9", cfg.Snap.DetachVelocity)
	}
	if cfg.Snap.ElementRange != snap.DefaultElementRange {
		t.Errorf("ElementRange = %d, want default", cfg.Snap.ElementRange)
	}
	if cfg.Canvas.NudgeStep != 4 || cfg.Canvas.PasteOffset != 20 {
		t.Errorf("Canvas = %+v", cfg.Canvas)
	}
	if cfg.Store.Backend != store.BackendSQLite || cfg.Store.Path != "/tmp/docs.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("LogLevel = %v, %v; want debug", lvl, err)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code ferrors.Code
	}{
		{"syntax", "[snap\n", ferrors.ErrCodeInvalidFormat},
		{"unknown key", "[snap]\nwobble = 1\n", ferrors.ErrCodeInvalidFormat},
		{"negative range", "[snap]\nelement_range = -1\n", ferrors.ErrCodeInvalidInput},
		{"zero velocity", "[snap]\ndetach_velocity = 0\n", ferrors.ErrCodeInvalidInput},
		{"zero nudge", "[canvas]\nnudge_step = 0\n", ferrors.ErrCodeInvalidInput},
		{"unknown backend", "[store]\nbackend = \"s3\"\n", ferrors.ErrCodeInvalidFormat},
		{"bad level", "[log]\nlevel = \"loud\"\n", ferrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			if !ferrors.Is(err, tt.code) {
				t.Errorf("Read() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Snap.MarkerSize = 5
	cfg.Store.Backend = store.BackendRedis
	cfg.Store.RedisDB = 2

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Canvas.PasteOffset = 0
	if err := cfg.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Canvas.PasteOffset != 0 {
		t.Errorf("PasteOffset = %d, want 0", got.Canvas.PasteOffset)
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "flowdeck", "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}
