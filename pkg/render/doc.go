// Package render serializes VNode trees to HTML.
//
// The renderer handles HTML5 void elements, boolean attributes, and text
// and attribute escaping. Attributes are written in sorted order so the
// same tree always produces the same bytes, which the preview server and
// the diff command rely on.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
// RenderPage wraps a body tree in a complete document:
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title: "README.md",
//	    Body:  node,
//	})
//
// # Security
//
// All text content is escaped. Raw HTML can be inserted using KindRaw
// nodes, which should only carry trusted content.
package render
