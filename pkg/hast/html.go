package hast

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/markview/internal/errors"
)

// FromHTML parses an HTML fragment into a root node. The fragment is parsed
// in a <body> context, so <html>, <head> and <body> tags are dropped.
func FromHTML(r io.Reader) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, errors.New("E100").Wrap(err).
			WithSuggestion("Check that the input is HTML")
	}
	root := &Node{Type: TypeRoot}
	for _, n := range nodes {
		if c := fromHTMLNode(n); c != nil {
			root.Children = append(root.Children, c)
		}
	}
	return root, nil
}

// FromHTMLString is FromHTML for a string.
func FromHTMLString(s string) (*Node, error) {
	return FromHTML(strings.NewReader(s))
}

func fromHTMLNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.CommentNode:
		return Comment(n.Data)
	case html.DoctypeNode:
		return &Node{Type: TypeDoctype}
	case html.ElementNode:
		el := &Node{Type: TypeElement, TagName: n.Data}
		if len(n.Attr) > 0 {
			el.Properties = make(Properties, len(n.Attr))
			for _, a := range n.Attr {
				key := a.Key
				if a.Namespace != "" {
					key = a.Namespace + ":" + a.Key
				}
				prop := PropertyName(key)
				el.Properties[prop] = PropertyValue(prop, strings.ToLower(key), a.Val)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTMLNode(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	return nil
}
