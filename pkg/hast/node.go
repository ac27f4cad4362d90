package hast

// NodeType is the node type discriminator.
type NodeType string

const (
	TypeRoot    NodeType = "root"
	TypeElement NodeType = "element"
	TypeText    NodeType = "text"
	TypeComment NodeType = "comment"
	TypeRaw     NodeType = "raw"
	TypeDoctype NodeType = "doctype"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	switch t {
	case TypeRoot, TypeElement, TypeText, TypeComment, TypeRaw, TypeDoctype:
		return true
	}
	return false
}

// Literal reports whether nodes of this type carry their content in Value.
func (t NodeType) Literal() bool {
	return t == TypeText || t == TypeComment || t == TypeRaw
}

// Point is a place in the source document.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset,omitempty"`
}

// Position is the span of source a node was parsed from.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Properties holds element properties keyed by HAST property name
// (className, htmlFor, href, ...). Values are plain data.
type Properties map[string]any

// Property keys that never take part in equality.
const (
	PositionKey = "position"
	DataKey     = "data"
)

// Node is a node in a document tree.
type Node struct {
	Type       NodeType       `json:"type"`
	TagName    string         `json:"tagName,omitempty"`
	Properties Properties     `json:"properties,omitempty"`
	Children   []*Node        `json:"children,omitempty"`
	Value      string         `json:"value,omitempty"`
	Position   *Position      `json:"position,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Root creates a root node.
func Root(children ...*Node) *Node {
	return &Node{Type: TypeRoot, Children: compact(children)}
}

// Element creates an element node.
func Element(tag string, props Properties, children ...*Node) *Node {
	return &Node{
		Type:       TypeElement,
		TagName:    tag,
		Properties: props,
		Children:   compact(children),
	}
}

// Text creates a text node.
func Text(value string) *Node {
	return &Node{Type: TypeText, Value: value}
}

// Comment creates a comment node.
func Comment(value string) *Node {
	return &Node{Type: TypeComment, Value: value}
}

// Raw creates a raw HTML node.
func Raw(html string) *Node {
	return &Node{Type: TypeRaw, Value: html}
}

// compact drops nil children.
func compact(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// IsElement reports whether n is an element with one of the given tags.
// With no tags it reports whether n is an element at all.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != TypeElement {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.TagName == t {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TypeText {
		return n.Value
	}
	var out []byte
	Walk(n, func(c *Node, _ []int) bool {
		if c.Type == TypeText {
			out = append(out, c.Value...)
		}
		return true
	})
	return string(out)
}

// ClassNames returns the className property as a list.
// Both list and space-separated string forms are accepted.
func (n *Node) ClassNames() []string {
	if n == nil {
		return nil
	}
	return stringList(n.Properties["className"])
}

// Clone returns a deep copy of n. Property values are copied when they are
// lists or maps; Position and Data are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Properties != nil {
		c.Properties = make(Properties, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = cloneValue(v)
		}
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), tv...)
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Walk visits n and its descendants depth-first. fn receives the child
// index path from n; returning false skips the node's children.
func Walk(n *Node, fn func(node *Node, path []int) bool) {
	walk(n, nil, fn)
}

func walk(n *Node, path []int, fn func(*Node, []int) bool) {
	if n == nil || !fn(n, path) {
		return
	}
	for i, c := range n.Children {
		walk(c, append(path[:len(path):len(path)], i), fn)
	}
}
