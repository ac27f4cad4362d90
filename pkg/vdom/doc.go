// Package vdom provides the virtual DOM that markview renders documents into.
//
// VNode is the fundamental building block representing elements, text,
// fragments and raw HTML. Props holds attributes. Markdown components
// return VNodes; the render package serializes them to HTML.
//
// # Element API
//
// Elements are created with El, which accepts attributes, props maps,
// children and strings in any order:
//
//	El("div", Class("code-block"), Data("language", "go"),
//	    El("span", Class("lang"), "go"),
//	    El("pre", El("code", source)),
//	)
//
// # Diffing
//
// Diff compares two VNode trees and returns the Patch operations that turn
// one into the other. Patches address nodes by child index path, so they
// can be applied to a tree that has no hydration IDs. Keyed reconciliation
// is used when children have keys.
package vdom
