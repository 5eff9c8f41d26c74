package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	tests := []struct {
		name     string
		xdg      string
		wantTail string
	}{
		{"xdg", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "flowdeck")},
		{"home", "", filepath.Join(".cache", "flowdeck")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if !strings.HasSuffix(dir, tt.wantTail) {
				t.Errorf("cacheDir() = %q, want suffix %q", dir, tt.wantTail)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := t.TempDir()
	dir := filepath.Join(cacheHome, "flowdeck", "ab")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "abcdef.json"), `{"data":"","expires_at":"2099-01-01T00:00:00Z"}`)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	root := New(os.Stderr, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abcdef.json")); !os.IsNotExist(err) {
		t.Errorf("cache entry still present: %v", err)
	}
}
