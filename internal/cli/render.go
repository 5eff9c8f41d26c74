package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/pipeline"
	"github.com/matzehuels/flowdeck/pkg/render"
	"github.com/matzehuels/flowdeck/pkg/store"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	fromStore string // stored document name instead of a file
	backend   string // store backend override
	noCache   bool
	pipeline  pipeline.Options
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.json]",
		Short: "Render a diagram to DOT, SVG, PNG or JSON",
		Long: `Render a diagram to DOT, SVG, PNG or JSON.

DOT and SVG show the diagram's topology laid out by Graphviz: shapes as
nodes, connectors as edges and groups as clusters. PNG draws every element
at its diagram coordinates. JSON writes the document records.

Artifacts are cached by document content, so rendering an unchanged
document again is fast. Use --store to render a stored document.`,
		ValidArgsFunction: completeDocumentFiles,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.fromStore != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pipeline.Formats = parseFormats(formatsStr)
			if err := opts.pipeline.Validate(); err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runRender(cmd, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.fromStore, "store", "", "render the stored document with this name")
	_ = cmd.RegisterFlagCompletionFunc("store", c.completeStoredNames)
	cmd.Flags().StringVar(&opts.backend, "backend", "", "store backend: "+strings.Join(store.Backends, ", "))
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.pipeline.Refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().Float64Var(&opts.pipeline.Render.Scale, "scale", render.DefaultScale, "PNG pixel scale")
	cmd.Flags().IntVar(&opts.pipeline.Render.Margin, "margin", render.DefaultMargin, "PNG margin in diagram units")
	cmd.Flags().BoolVar(&opts.pipeline.Render.Grid, "grid", false, "draw a background grid (png)")
	cmd.Flags().BoolVar(&opts.pipeline.Render.Detailed, "detailed", false, "label nodes with kind and geometry (dot, svg)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var doc persist.Document
	if opts.fromStore != "" {
		s, backend, err := c.openStore(ctx, opts.backend)
		if err != nil {
			return err
		}
		defer s.Close()
		if doc, err = runner.FetchDocument(ctx, s, backend, opts.fromStore, opts.pipeline.Refresh); err != nil {
			return fmt.Errorf("fetch %s: %w", opts.fromStore, err)
		}
		input = opts.fromStore
	} else if doc, err = persist.ReadFile(input); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, doc, opts.pipeline)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.pipeline.Formats, input, opts.output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(paths)))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Elements, result.Stats.Connections, result.CacheHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact and returns the paths in format
// order. A single format goes to output as given; several formats share
// output (or the input name) as a base path. The input file is never
// overwritten.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := output
		if len(formats) > 1 || path == "" {
			path = basePath(output, input) + "." + format
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			path = basePath(output, input) + "_export." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
