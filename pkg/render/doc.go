// Package render turns diagrams into pictures.
//
// # Overview
//
// Four output formats are supported through [Render]:
//
//   - dot: Graphviz source from the [nodelink] subpackage
//   - svg: the dot output laid out by Graphviz
//   - png: a raster drawing of every element at its diagram coordinates
//   - json: the persisted document, for piping into other tools
//
// SVG shows topology, PNG shows geometry. The PNG renderer draws groups
// first, then the remaining elements back to front, so connectors stay on
// top of the shapes they join.
//
//	png, err := render.Render(g, render.FormatPNG, render.Options{Scale: 2})
//
// # Terminal Grid
//
// [NewGrid] rasterizes a region of the diagram into character cells for
// the interactive editor. Each cell remembers which element drew it, so
// callers can style the selection, and connection point markers are drawn
// as '+'.
package render
