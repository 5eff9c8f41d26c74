package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdeck/pkg/canvas"
	"github.com/matzehuels/flowdeck/pkg/store"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var fromStore, backend string

	cmd := &cobra.Command{
		Use:   "edit [file.json]",
		Short: "Edit a diagram in the terminal",
		Long: `Edit a diagram in the terminal.

Arrow keys (or hjkl) nudge the selection one step at a time. A connector
end moved within range of a shape's connection point attaches to it, and a
step away from an attached point detaches it. Space holds a drag open so
connection-point markers stay visible while moving. Every gesture is one
undo entry.

A missing file is created on first save. With --store the document is
loaded from and saved to the configured store.`,
		ValidArgsFunction: completeDocumentFiles,
		Args: func(cmd *cobra.Command, args []string) error {
			if fromStore != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				cv   *canvas.Canvas
				path string
				save func() error
			)

			if fromStore != "" {
				s, _, err := c.openStore(ctx, backend)
				if err != nil {
					return err
				}
				defer s.Close()

				cv = canvas.New(nil, c.canvasOptions())
				doc, err := s.Load(ctx, fromStore)
				switch {
				case store.IsNotFound(err):
					c.Logger.Info("new stored document", "name", fromStore)
				case err != nil:
					return err
				default:
					if err := cv.LoadDocument(doc); err != nil {
						return err
					}
				}
				path = "store:" + fromStore
				save = func() error {
					doc, err := cv.Document()
					if err != nil {
						return err
					}
					return s.Save(ctx, fromStore, doc)
				}
			} else {
				path = args[0]
				var err error
				if cv, err = c.openCanvas(path, true); err != nil {
					return err
				}
				save = func() error { return saveCanvas(cv, path) }
			}

			final, err := tea.NewProgram(NewEditorModel(cv, path, save), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			if m, ok := final.(EditorModel); ok && m.Dirty() {
				printWarning("Quit with unsaved changes to %s", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStore, "store", "", "edit the stored document with this name")
	_ = cmd.RegisterFlagCompletionFunc("store", c.completeStoredNames)
	cmd.Flags().StringVar(&backend, "backend", "", "store backend override")

	return cmd
}
