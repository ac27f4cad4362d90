package markdown

import (
	"strings"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/vdom"
)

// Language returns the language of a code element from its
// "language-*" (or "lang-*") class, or "".
func Language(code *hast.Node) string {
	for _, c := range code.ClassNames() {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(c, "lang-"); ok {
			return lang
		}
	}
	return ""
}

// codeChild returns the single <code> child of pre, ignoring
// whitespace-only text, or nil.
func codeChild(pre *hast.Node) *hast.Node {
	var code *hast.Node
	for _, c := range pre.Children {
		switch {
		case c == nil:
		case c.Type == hast.TypeText && strings.TrimSpace(c.Value) == "":
		case c.IsElement("code") && code == nil:
			code = c
		default:
			return nil
		}
	}
	return code
}

// codeBlock renders a fenced code block through the CodeHeader and
// SyntaxHighlighter roles. It reports false when neither role is set or pre
// is not a code block, in which case pre renders like any element.
func (p *pass) codeBlock(pre *hast.Node, path string) (*vdom.VNode, bool) {
	highlighter := present(p.r.components.SyntaxHighlighter)
	header := present(p.r.components.CodeHeader)
	if highlighter == nil && header == nil {
		return nil, false
	}
	code := codeChild(pre)
	if code == nil {
		return nil, false
	}

	lang := Language(code)
	text := code.TextContent()

	var head, body *vdom.VNode
	if header != nil {
		head = p.invoke(header, CodeHeaderKey, path, Props{
			Node:     code,
			Tag:      "code",
			Language: lang,
			Code:     text,
		}, nil)
	}
	if highlighter != nil {
		body = p.invoke(highlighter, SyntaxHighlighterKey, path, Props{
			Node:     code,
			Tag:      "code",
			Attrs:    Attributes(code.Properties),
			Language: lang,
			Code:     text,
		}, nil)
	} else {
		body = p.element(pre, path)
	}
	return vdom.Fragment(head, body), true
}
