package cli

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/store"
)

func TestCompleteStoredNames(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"flow", "flowchart", "other"} {
		if err := fs.Save(context.Background(), name, persist.Document{Version: persist.Version}); err != nil {
			t.Fatal(err)
		}
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Store.Backend = store.BackendFile
	c.Config.Store.Dir = dir

	names, directive := c.completeStoredNames(&cobra.Command{}, nil, "flow")
	slices.Sort(names)
	if !slices.Equal(names, []string{"flow", "flowchart"}) {
		t.Errorf("names = %v", names)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}

	_, directive = c.completeStoredThenFile(&cobra.Command{}, []string{"flow"}, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("second argument directive = %v, want file filter", directive)
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if _, err := runCLI(t, "completion", shell); err != nil {
				t.Errorf("completion %s: %v", shell, err)
			}
		})
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}
