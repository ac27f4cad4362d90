package markdown

import (
	"strings"

	"github.com/vango-dev/markview/pkg/vdom"
)

// Defaults returns a registry with the built-in components: a code header
// with the language and a copy button, a line-numbering code block, external
// links that open in a new tab, and scrollable tables. Pass the result through
// MemoizeComponents before rendering.
func Defaults() Components {
	return Components{
		Elements: map[Tag]Component{
			"a":     ComponentFunc(Link),
			"table": ComponentFunc(Table),
		},
		SyntaxHighlighter: ComponentFunc(CodeBlock),
		CodeHeader:        ComponentFunc(CodeHeader),
	}
}

// CodeHeader renders the bar above a code block.
func CodeHeader(p Props) *vdom.VNode {
	lang := p.Language
	if lang == "" {
		lang = "text"
	}
	return vdom.El("div", vdom.Class("code-header"),
		vdom.El("span", vdom.Class("code-language"), lang),
		vdom.El("button", vdom.Type("button"), vdom.Class("code-copy"),
			vdom.AriaLabel("Copy code"), "Copy"),
	)
}

// CodeBlock renders code with one span per line.
func CodeBlock(p Props) *vdom.VNode {
	code := strings.TrimSuffix(p.Code, "\n")
	lines := strings.Split(code, "\n")

	children := make([]*vdom.VNode, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			children = append(children, vdom.Text("\n"))
		}
		children = append(children, vdom.El("span", vdom.Class("line"), line))
	}

	var codeClass string
	if p.Language != "" {
		codeClass = "language-" + p.Language
	}
	pre := []any{vdom.Class("code-block")}
	if p.Language != "" {
		pre = append(pre, vdom.Data("language", p.Language))
	}
	pre = append(pre, vdom.El("code", vdom.Class(codeClass), children))
	return vdom.El("pre", pre...)
}

// Link renders an anchor; absolute http(s) links open in a new tab.
func Link(p Props) *vdom.VNode {
	attrs := p.Attrs.Clone()
	if href, _ := attrs["href"].(string); isExternal(href) {
		if attrs == nil {
			attrs = vdom.Props{}
		}
		attrs["target"] = "_blank"
		attrs["rel"] = "noopener noreferrer"
	}
	return vdom.El("a", attrs, p.Children)
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// Table wraps a table in a horizontally scrollable container.
func Table(p Props) *vdom.VNode {
	return vdom.El("div", vdom.Class("table-wrapper"),
		vdom.El("table", p.Attrs, p.Children),
	)
}
