package markdown

import (
	"sort"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/vdom"
)

// Tag identifies an element tag name ("p", "a", "code", ...).
type Tag string

// Registry keys of the two code-block roles.
const (
	SyntaxHighlighterKey = "SyntaxHighlighter"
	CodeHeaderKey        = "CodeHeader"
)

// Props are the values a component renders from.
type Props struct {
	// Node is the source node. It is cleared before a memoized component
	// is called.
	Node *hast.Node

	// Tag is the element tag the component is rendering.
	Tag string

	// Attrs are the HTML attributes derived from the node's properties.
	Attrs vdom.Props

	// Children are the rendered children of the node.
	Children []*vdom.VNode

	// Language and Code are set for the code-block roles.
	Language string
	Code     string
}

// WithoutNode returns a copy of p with Node cleared.
func (p Props) WithoutNode() Props {
	p.Node = nil
	return p
}

// Component renders props to a VNode.
type Component interface {
	Render(p Props) *vdom.VNode
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(p Props) *vdom.VNode

// Render implements Component.
func (f ComponentFunc) Render(p Props) *vdom.VNode {
	return f(p)
}

// Components maps element tags to renderer overrides, plus the two code
// block roles. A nil entry means "render the tag normally".
type Components struct {
	Elements          map[Tag]Component
	SyntaxHighlighter Component
	CodeHeader        Component

	// roles records role keys given to FromMap, so a nil role survives Map.
	roles roleSet
}

type roleSet uint8

const (
	roleSyntaxHighlighter roleSet = 1 << iota
	roleCodeHeader
)

// FromMap builds Components from a flat registry where the
// SyntaxHighlighter and CodeHeader keys name the code block roles.
func FromMap(m map[string]Component) Components {
	var c Components
	for k, v := range m {
		switch k {
		case SyntaxHighlighterKey:
			c.SyntaxHighlighter = v
			c.roles |= roleSyntaxHighlighter
		case CodeHeaderKey:
			c.CodeHeader = v
			c.roles |= roleCodeHeader
		default:
			if c.Elements == nil {
				c.Elements = make(map[Tag]Component, len(m))
			}
			c.Elements[Tag(k)] = v
		}
	}
	return c
}

// Map flattens c into a single registry keyed by tag or role name.
// A role key appears when its slot is set or when FromMap was given the
// key, even with a nil value.
func (c Components) Map() map[string]Component {
	m := make(map[string]Component, len(c.Elements)+2)
	for k, v := range c.Elements {
		m[string(k)] = v
	}
	if c.SyntaxHighlighter != nil || c.roles&roleSyntaxHighlighter != 0 {
		m[SyntaxHighlighterKey] = c.SyntaxHighlighter
	}
	if c.CodeHeader != nil || c.roles&roleCodeHeader != 0 {
		m[CodeHeaderKey] = c.CodeHeader
	}
	return m
}

// Lookup returns the override for tag, or nil.
func (c Components) Lookup(tag string) Component {
	return present(c.Elements[Tag(tag)])
}

// Tags returns the element tags that have an entry, sorted.
func (c Components) Tags() []Tag {
	tags := make([]Tag, 0, len(c.Elements))
	for k := range c.Elements {
		tags = append(tags, k)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// UnknownTags returns registry tags that are not standard HTML elements.
func (c Components) UnknownTags() []Tag {
	var unknown []Tag
	for _, t := range c.Tags() {
		if !hast.IsKnownTag(string(t)) {
			unknown = append(unknown, t)
		}
	}
	return unknown
}

// present returns nil for nil components, including typed nil functions.
func present(c Component) Component {
	switch v := c.(type) {
	case nil:
		return nil
	case ComponentFunc:
		if v == nil {
			return nil
		}
	case *Memo:
		if v == nil {
			return nil
		}
	}
	return c
}
