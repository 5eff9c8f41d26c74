package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdeck/pkg/canvas"
	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

// =============================================================================
// new
// =============================================================================

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var force, sample bool

	cmd := &cobra.Command{
		Use:   "new [file.json]",
		Short: "Create a diagram document",
		Long: `Create a diagram document.

By default the document is empty. --sample writes a small flow of two
boxes joined by an attached arrow, useful for trying the editor.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocumentFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := ferrors.ValidatePath(path); err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}

			g := diagram.New()
			if sample {
				var err error
				if g, err = sampleGraph(); err != nil {
					return err
				}
			}
			doc, err := persist.NewDocument(g.Elements(), nil)
			if err != nil {
				return err
			}
			if err := persist.WriteFile(path, doc); err != nil {
				return err
			}

			printSuccess("Created %s", path)
			printStats(g.Len(), g.ConnectionCount(), false)
			printNextStep("Edit it", "flowdeck edit "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&sample, "sample", false, "start from a small sample flow")

	return cmd
}

// sampleGraph returns two boxes joined by an arrow bound at both ends.
func sampleGraph() (*diagram.Graph, error) {
	start := diagram.NewElement(diagram.KindBox, diagram.R(40, 40, 120, 40))
	start.Text = "Start"
	end := diagram.NewElement(diagram.KindBox, diagram.R(40, 200, 120, 40))
	end.Text = "End"
	arrow := diagram.NewConnector(diagram.KindArrow, diagram.Pt(100, 80), diagram.Pt(100, 200))

	g := diagram.New()
	if err := g.AddAll([]*diagram.Element{start, end, arrow}); err != nil {
		return nil, err
	}
	if err := g.Attach(arrow.ID, diagram.GripStart, start.ID, diagram.CP(diagram.GripBottomMiddle, diagram.Pt(100, 80))); err != nil {
		return nil, err
	}
	if err := g.Attach(arrow.ID, diagram.GripEnd, end.ID, diagram.CP(diagram.GripTopMiddle, diagram.Pt(100, 200))); err != nil {
		return nil, err
	}
	return g, nil
}

// =============================================================================
// info
// =============================================================================

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	var elements bool

	cmd := &cobra.Command{
		Use:               "info [file.json]",
		Short:             "Summarize a diagram document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocumentFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cv, err := c.openCanvas(args[0], false)
			if err != nil {
				return err
			}
			g := cv.Graph()

			fmt.Println(StyleTitle.Render(args[0]))
			printKeyValue("Elements", fmt.Sprint(g.Len()))
			printKeyValue("Connections", fmt.Sprint(g.ConnectionCount()))
			printKeyValue("Grouped", fmt.Sprint(g.GroupMemberships()))
			printKeyValue("Kinds", kindSummary(g))
			if b := g.Bounds(); !b.IsEmpty() {
				printKeyValue("Bounds", fmt.Sprintf("%dx%d @ (%d,%d)", b.Width, b.Height, b.X, b.Y))
			}
			if elements && g.Len() > 0 {
				fmt.Println(elementTable(g))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&elements, "elements", "e", true, "list every element")

	return cmd
}

func kindSummary(g *diagram.Graph) string {
	counts := make(map[string]int)
	for _, e := range g.Elements() {
		counts[e.Kind]++
	}
	if len(counts) == 0 {
		return "—"
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// import
// =============================================================================

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [target.json] [source.json]...",
		Short: "Merge documents into a target document",
		Long: `Merge documents into a target document.

Every imported element receives a fresh identity, and connections, group
memberships and callout references inside each source are kept. The
result is written back to the target unless --output is set.`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeDocumentFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, sources := args[0], args[1:]
			cv, err := c.openCanvas(target, false)
			if err != nil {
				return err
			}

			for _, src := range sources {
				doc, err := persist.ReadFile(src)
				if err != nil {
					return fmt.Errorf("read %s: %w", src, err)
				}
				ids, err := cv.ImportDocument(doc)
				if err != nil {
					return fmt.Errorf("import %s: %w", src, err)
				}
				printInfo("Imported %d elements from %s", len(ids), src)
			}

			if output == "" {
				output = target
			}
			if err := saveCanvas(cv, output); err != nil {
				return err
			}
			printSuccess("Wrote %s", output)
			printStats(cv.Graph().Len(), cv.Graph().ConnectionCount(), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite target)")

	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// openCanvas loads path into a new canvas. With allowMissing, a missing
// file yields an empty canvas.
func (c *CLI) openCanvas(path string, allowMissing bool) (*canvas.Canvas, error) {
	if err := ferrors.ValidatePath(path); err != nil {
		return nil, err
	}
	cv := canvas.New(nil, c.canvasOptions())
	doc, err := persist.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return cv, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := cv.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cv, nil
}

// saveCanvas writes the canvas document to path.
func saveCanvas(cv *canvas.Canvas, path string) error {
	doc, err := cv.Document()
	if err != nil {
		return err
	}
	return persist.WriteFile(path, doc)
}
