package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the element kind and attributes in node labels.
	// When false, only the label text is shown.
	Detailed bool
}

var shapes = map[string]string{
	diagram.KindBox:     "box",
	diagram.KindEllipse: "ellipse",
	diagram.KindDiamond: "diamond",
	diagram.KindText:    "plaintext",
	diagram.KindCallout: "note",
}

// ToDOT converts a diagram to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *diagram.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Go Mono\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	visible := func(id diagram.ID) bool {
		e := g.Element(id)
		return e != nil && e.Visible
	}

	for _, e := range g.Elements() {
		if !e.Visible || e.IsConnector() || visible(e.Parent) {
			continue
		}
		writeElement(&buf, g, e, opts, "  ")
	}

	buf.WriteString("\n")
	for _, e := range g.Elements() {
		if !e.Visible {
			continue
		}
		switch {
		case e.IsConnector():
			writeConnector(&buf, e, visible)
		case e.Ref != diagram.NilID && visible(e.Ref) && !g.Element(e.Ref).IsContainer():
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none];\n", e.ID, e.Ref)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeElement(buf *bytes.Buffer, g *diagram.Graph, e *diagram.Element, opts Options, indent string) {
	if !e.IsContainer() {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, e.ID, strings.Join(fmtAttrs(e, fmtLabel(e, opts.Detailed)), ", "))
		return
	}
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+string(e.ID))
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, e.Text)
	fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
	fmt.Fprintf(buf, "%s  color=%q;\n", indent, e.Style.BorderColor.Hex())
	for _, id := range e.Children {
		child := g.Element(id)
		if child == nil || !child.Visible || child.IsConnector() {
			continue
		}
		writeElement(buf, g, child, opts, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeConnector(buf *bytes.Buffer, e *diagram.Element, visible func(diagram.ID) bool) {
	from, to := string(e.StartShape), string(e.EndShape)
	if e.StartShape == diagram.NilID || !visible(e.StartShape) {
		from = string(e.ID) + ":start"
		fmt.Fprintf(buf, "  %q [shape=point, width=0.05];\n", from)
	}
	if e.EndShape == diagram.NilID || !visible(e.EndShape) {
		to = string(e.ID) + ":end"
		fmt.Fprintf(buf, "  %q [shape=point, width=0.05];\n", to)
	}
	attrs := []string{fmt.Sprintf("color=%q", e.Style.BorderColor.Hex())}
	if e.Text != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Text))
	}
	if e.Kind == diagram.KindLine {
		attrs = append(attrs, "arrowhead=none")
	}
	fmt.Fprintf(buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
}

func fmtLabel(e *diagram.Element, detailed bool) string {
	if !detailed {
		return e.Label()
	}

	parts := []string{"kind: " + e.Kind}
	for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Attrs[k]))
	}

	return e.Label() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(e *diagram.Element, label string) []string {
	shape, ok := shapes[e.Kind]
	if !ok {
		shape = "box"
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		"shape=" + shape,
		fmt.Sprintf("fontcolor=%q", e.Style.TextColor.Hex()),
		fmt.Sprintf("color=%q", e.Style.BorderColor.Hex()),
	}
	if a, _, _, _ := e.Style.FillColor.Channels(); a > 0 {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", e.Style.FillColor.Hex()))
	} else {
		attrs = append(attrs, "style=rounded")
	}
	if e.Bookmarked {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
