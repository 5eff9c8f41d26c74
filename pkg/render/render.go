package render

import (
	"fmt"

	"github.com/matzehuels/flowdeck/pkg/cache"
	"github.com/matzehuels/flowdeck/pkg/diagram"
	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
	"github.com/matzehuels/flowdeck/pkg/render/nodelink"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG, FormatJSON}

// Defaults for [Options].
const (
	DefaultScale  = 1.0
	DefaultMargin = 20
)

// Options configures rendering. Zero fields take their defaults.
type Options struct {
	// Scale multiplies PNG pixel dimensions.
	Scale float64
	// Margin is the blank border around a PNG drawing, in diagram units.
	Margin int
	// Grid draws a light background grid in PNG output.
	Grid bool
	// Detailed adds kinds and attributes to DOT and SVG labels.
	Detailed bool
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// KeyOpts returns the cache key options for format.
func (o Options) KeyOpts(format string) cache.ArtifactKeyOpts {
	o = o.withDefaults()
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale, k.Margin, k.Grid = o.Scale, o.Margin, o.Grid
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	}
	return k
}

// Render produces g in the given format.
func Render(g *diagram.Graph, format string, opts Options) ([]byte, error) {
	if err := ferrors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	switch format {
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed}))
	case FormatPNG:
		return RenderPNG(g, opts)
	case FormatJSON:
		data, err := persist.Marshal(g.Elements(), nil)
		if err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return data, nil
	}
	return nil, nil
}
