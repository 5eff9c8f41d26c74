// Package pipeline turns stored documents into rendered artifacts.
//
// A [Runner] decodes a document into a diagram graph and renders it in one
// or more formats. Artifacts are cached by the document's content hash and
// the options that change their bytes, so rendering an unchanged document
// again costs one cache read per format. Documents fetched from a remote
// store are cached briefly as well.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/render"
)

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = render.FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Formats []string       `json:"formats,omitempty"`
	Render  render.Options `json:"render"`
	// Refresh skips cache reads. Fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the decoded diagram.
	Graph *diagram.Graph

	// DocumentHash is the content hash of the encoded document.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats

	// CacheHit is set when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements    int
	Connections int
	DecodeTime  time.Duration
	RenderTime  time.Duration
}

// SetDefaults fills in the default format.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
}

// Validate applies defaults and checks every requested format.
func (o *Options) Validate() error {
	o.SetDefaults()
	return ValidateFormats(o.Formats)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is one of [render.Formats].
func ValidateFormat(format string) error {
	return ferrors.ValidateFormat(format, render.Formats...)
}

// ValidateFormats checks that all formats are valid and none repeats.
func ValidateFormats(formats []string) error {
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return ferrors.New(ferrors.ErrCodeInvalidInput, "format %q requested twice", f)
		}
		seen[f] = true
	}
	return nil
}
