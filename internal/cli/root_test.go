package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"new", "info", "render", "import", "edit", "store", "config", "cache", "version", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

// runCLI executes args against a fresh CLI with an isolated config file.
func runCLI(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return c, root.ExecuteContext(context.Background())
}

func TestSetupVerbose(t *testing.T) {
	c, err := runCLI(t, "--verbose", "config", "path")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestSetupBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[snap]\nelement_range = -1\n")

	_, err := runCLI(t, "--config", path, "config", "path")
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %v, want load config failure", err)
	}
}
