// Package markdown renders HAST documents through user supplied components
// and skips re-rendering the components whose source node did not change.
//
// A Components registry maps element tags to Component overrides and has two
// extra slots for code blocks: SyntaxHighlighter and CodeHeader.
// MemoizeComponents wraps every entry in a *Memo:
//
//	components := markdown.MemoizeComponents(markdown.Components{
//	    Elements: map[markdown.Tag]markdown.Component{
//	        "p": markdown.ComponentFunc(func(p markdown.Props) *vdom.VNode {
//	            return vdom.El("p", vdom.Class("prose"), p.Attrs, p.Children)
//	        }),
//	    },
//	    SyntaxHighlighter: highlighter,
//	})
//
// A Renderer installs the registry as tag overrides and keeps one memo
// Instance per position in the tree. Rendering the next version of a
// streamed document only calls the components whose node is structurally
// different from the previous render (see hast.Equal):
//
//	r := markdown.NewRenderer(components)
//	tree, stats, err := r.Render(ctx, doc)
//	// stats.Rendered, stats.Skipped
//
// Wrapped components never see the raw node: Props.Node is cleared before
// the wrapped component is called.
package markdown
