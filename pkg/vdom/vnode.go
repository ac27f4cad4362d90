package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <p>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText and KindRaw
}

// Props holds attributes keyed by HTML attribute name.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// String renders a compact, single-line description of the tree, mainly for
// test failures and debug logs.
func (v *VNode) String() string {
	var b strings.Builder
	v.describe(&b)
	return b.String()
}

func (v *VNode) describe(b *strings.Builder) {
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	switch v.Kind {
	case KindText:
		fmt.Fprintf(b, "%q", v.Text)
		return
	case KindRaw:
		fmt.Fprintf(b, "raw(%q)", v.Text)
		return
	case KindFragment:
		b.WriteString("fragment")
	default:
		b.WriteString(v.Tag)
	}
	if v.Key != "" {
		fmt.Fprintf(b, "#%s", v.Key)
	}
	b.WriteByte('(')
	for i, c := range v.Children {
		if i > 0 {
			b.WriteString(", ")
		}
		c.describe(b)
	}
	b.WriteByte(')')
}
