package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/flowdeck/pkg/persist"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readDoc(t *testing.T, path string) persist.Document {
	t.Helper()
	doc, err := persist.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return doc
}

func TestNewAndInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")

	if _, err := runCLI(t, "new", "--sample", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := len(readDoc(t, path).Records); got != 3 {
		t.Errorf("sample has %d records, want 3", got)
	}

	if _, err := runCLI(t, "new", path); err == nil {
		t.Error("new over an existing file without --force should fail")
	}
	if _, err := runCLI(t, "info", path); err != nil {
		t.Errorf("info: %v", err)
	}
	if _, err := runCLI(t, "info", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("info on a missing file should fail")
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	out := filepath.Join(dir, "merged.json")
	for _, p := range []string{a, b} {
		if _, err := runCLI(t, "new", "--sample", p); err != nil {
			t.Fatalf("new %s: %v", p, err)
		}
	}

	if _, err := runCLI(t, "import", "-o", out, a, b); err != nil {
		t.Fatalf("import: %v", err)
	}
	doc := readDoc(t, out)
	if len(doc.Records) != 6 {
		t.Errorf("merged has %d records, want 6", len(doc.Records))
	}
	if got := len(readDoc(t, a).Records); got != 3 {
		t.Errorf("target rewritten despite --output: %d records", got)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	if _, err := runCLI(t, "new", "--sample", path); err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := runCLI(t, "render", "-f", "dot,png,json", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"flow.dot", "flow.png", "flow_export.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if got := len(readDoc(t, path).Records); got != 3 {
		t.Errorf("input changed: %d records", got)
	}

	single := filepath.Join(dir, "out.dot")
	if _, err := runCLI(t, "render", "-f", "dot", "-o", single, path); err != nil {
		t.Fatalf("render single: %v", err)
	}
	if _, err := os.Stat(single); err != nil {
		t.Errorf("missing %s: %v", single, err)
	}

	if _, err := runCLI(t, "render", "-f", "gif", path); err == nil {
		t.Error("render with an unknown format should fail")
	}
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	writeFile(t, cfg, "[store]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "docs"))+"\"\n")

	path := filepath.Join(dir, "flow.json")
	if _, err := runCLI(t, "new", "--sample", path); err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := runCLI(t, "--config", cfg, "store", "push", path); err != nil {
		t.Fatalf("push: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "flow.json")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	pulled := filepath.Join(dir, "pulled.json")
	if _, err := runCLI(t, "--config", cfg, "store", "pull", "flow", pulled); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got := len(readDoc(t, pulled).Records); got != 3 {
		t.Errorf("pulled %d records, want 3", got)
	}

	if _, err := runCLI(t, "--config", cfg, "store", "pull", "nope", pulled); err == nil {
		t.Error("pull of a missing document should fail")
	}
	if _, err := runCLI(t, "--config", cfg, "store", "rm", "flow"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "docs", "flow.json")); !os.IsNotExist(err) {
		t.Errorf("stored file still present: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowdeck", "config.toml")
	if _, err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCLI(t, "--config", path, "config", "show"); err != nil {
		t.Errorf("config show after init: %v", err)
	}
}
