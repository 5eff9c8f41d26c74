// Package cli implements the flowdeck command-line interface.
//
// This package provides commands for creating and inspecting diagram
// documents, editing them interactively in the terminal, moving them
// between document stores, and rendering them to DOT, SVG, PNG and JSON.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - new: Create an empty document
//   - info: Summarize a document
//   - render: Generate DOT, SVG, PNG or JSON output
//   - import: Merge documents into another one
//   - edit: Open the interactive terminal editor
//   - store: Push, pull, list and remove stored documents
//   - config: Inspect and initialize the configuration file
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and snap, store and cache events are
// logged at debug level.
//
// # Example
//
//	import "github.com/matzehuels/flowdeck/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"
)

// Execute runs the flowdeck CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: the configured level, info unless set (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
