// Package pkg provides the core libraries for flowdeck flowchart editing.
//
// # Overview
//
// flowdeck keeps a flowchart as a connection graph: shapes own connection
// points, and line or arrow connectors bind their end grips to them. The
// pkg directory is organized into four main areas:
//
//  1. Domain logic ([diagram], [snap], [undo], [canvas])
//  2. Persistence ([persist], [store], [cache])
//  3. Output ([render], [render/nodelink], [pipeline])
//  4. Support ([config], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow through flowdeck:
//
//	Document file or store
//	         ↓
//	    [persist] package (records, identity remap)
//	         ↓
//	    [diagram] package (connection graph)
//	         ↓
//	    [canvas] package (selection, gestures, snapping, undo)
//	         ↓
//	    [render] package (DOT, SVG, PNG, JSON, terminal grid)
//
// # Quick Start
//
// Load a document, move a shape, and render it:
//
//	import (
//	    "github.com/matzehuels/flowdeck/pkg/canvas"
//	    "github.com/matzehuels/flowdeck/pkg/diagram"
//	    "github.com/matzehuels/flowdeck/pkg/persist"
//	    "github.com/matzehuels/flowdeck/pkg/render"
//	)
//
//	doc, _ := persist.ReadFile("flow.json")
//	cv := canvas.New(nil, canvas.Options{})
//	_ = cv.LoadDocument(doc)
//
//	cv.SelectAll()
//	cv.Nudge(diagram.Vec(10, 0))
//
//	svg, _ := render.Render(cv.Graph(), render.FormatSVG, render.Options{})
//
// # Main Packages
//
// [diagram] - Elements, geometry and the connection graph. Connectors bind
// their start and end grips to connection points of other elements, and
// moving an element keeps every bound endpoint on its point.
//
// [snap] - The snap engine: while an endpoint is dragged, it finds the
// nearest connection point in range and attaches, and a fast drag away
// detaches.
//
// [canvas] - The editing controller used by the terminal editor: selection,
// drag gestures, clipboard, grouping and undo history.
//
// [persist] - Versioned JSON documents. Loading remaps identities so that
// imported and pasted elements never collide with existing ones.
//
// [store] - Named document storage on the filesystem, SQLite, Redis or
// MongoDB.
//
// [cache] - Content-addressed cache for rendered artifacts and remote
// documents.
//
// [render] - Output formats. DOT and SVG go through Graphviz; PNG is drawn
// directly; the grid renderer draws box-drawing characters for terminals.
//
// [pipeline] - Orchestration: decode, render and cache one document in
// several formats.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/diagram
// [snap]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/snap
// [undo]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/undo
// [canvas]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/canvas
// [persist]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/persist
// [store]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowdeck/pkg/buildinfo
package pkg
