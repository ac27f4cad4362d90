// Package hast provides the document tree that markview renders.
//
// The tree follows the HAST shape produced by markdown pipelines: a root
// node holding elements, text, comments and raw HTML. Elements carry a tag
// name, a property map of plain data and ordered children. Every node may
// carry the source Position it was parsed from and auxiliary parser Data;
// neither ever takes part in equality.
//
// # Equality
//
// Equal reports whether two nodes render identically. It is the predicate
// the markdown package uses to skip re-rendering unchanged blocks:
//
//	a := hast.Element("p", hast.Properties{"id": "a"}, hast.Text("hello"))
//	b := hast.Element("p", hast.Properties{"id": "a"}, hast.Text("hello"))
//	b.Position = &hast.Position{Start: hast.Point{Line: 5}}
//	hast.Equal(a, b) // true
//
// Property maps compare structurally: key order never matters, numbers
// compare by value, and the "position" and "data" property keys are
// ignored. Compare exposes the error for values that are not plain data.
//
// # Input
//
// Decode reads HAST JSON. FromHTML converts an HTML fragment into a tree,
// mapping attribute names to HAST property names.
package hast
