// Package persist converts diagram elements to and from a flat record
// format used for files, stores and the clipboard.
//
// # Record Format
//
// A [Document] is a version number plus an ordered list of [Record]
// values, one per element. A record carries the element's type tag, its
// identifier, geometry, visual attributes, an attribute bag for
// kind-specific data, the connections the element owns and the IDs of its
// grouped children. Colors are 32-bit ARGB integers; grips are written by
// name. Fields added after version 1 default so that older files still
// load: a record without "visible" is visible.
//
// # Identity Remapping
//
// [Deserialize] never reuses saved identifiers. Every element gets a fresh
// ID, and a [Remap] table from old to new IDs is used to rebuild every
// cross-reference. Loading a file, importing a second diagram and pasting
// from the clipboard therefore share one code path and can never collide
// with elements already on the canvas.
//
// Deserialization runs four passes over the whole record list, each
// finishing before the next starts:
//
//  1. instantiate elements and build the remap table
//  2. rebuild connections on the owning element
//  3. rebuild parent/child links
//  4. run per-kind final fixups (e.g. a callout's reference)
//
// Any failure fails the whole call and no elements are returned. A
// reference that does not resolve is reported as a [*BrokenReferenceError].
//
// # Kinds
//
// Each element kind is handled by a [Codec] from a [Registry]. Kinds
// without an explicit codec fall back to the generic shape or connector
// codec, depending on how the kind was registered with the diagram
// package.
package persist
