// Package nodelink renders diagrams as Graphviz node-link drawings.
//
// # Overview
//
// Shapes become nodes, connectors bound at both ends become edges, and
// groups become clusters. Graphviz computes its own layout, so the output
// shows the diagram's topology rather than its on-canvas geometry; use
// the PNG renderer in the parent package for a faithful picture.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Mapping
//
//   - box, ellipse and diamond keep their Graphviz shape of the same name
//   - text becomes a plaintext node, callout a note linked to its target
//     with a dotted edge
//   - a connector endpoint that is not bound to a shape is drawn as a
//     point node, so dangling connectors stay visible
//   - line connectors have no arrowhead
//
// Hidden elements are skipped, as are edges touching them.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
