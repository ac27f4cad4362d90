package hast

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/markview/internal/errors"
)

// UnmarshalJSON decodes a HAST node. A "children" value that is a plain
// string is accepted as shorthand for a single text child.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var aux struct {
		plain
		Children json.RawMessage `json:"children,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Node(aux.plain)
	n.Children = nil

	raw := bytes.TrimSpace(aux.Children)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		n.Children = []*Node{Text(s)}
	default:
		if err := json.Unmarshal(raw, &n.Children); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads one HAST document from r and validates it.
func Decode(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E100").Wrap(err)
	}
	return Parse(data, "")
}

// Parse decodes a HAST document from data. name identifies the document in
// error locations and may be empty.
func Parse(data []byte, name string) (*Node, error) {
	if name == "" {
		name = "<input>"
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		e := errors.New("E100").Wrap(err)
		var syntax *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntax):
			e.WithOffset(name, data, syntax.Offset)
		case stderrors.As(err, &typeErr):
			e.WithOffset(name, data, typeErr.Offset)
		}
		return nil, e.WithSuggestion("Check that the document is valid HAST JSON")
	}
	if err := Validate(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Validate checks that every node in the tree has a known type and that
// elements have a tag name. Trees nested deeper than MaxDepth, including
// trees whose children cycle back, are reported as E102.
func Validate(root *Node) error {
	var err error
	Walk(root, func(n *Node, path []int) bool {
		if err != nil {
			return false
		}
		switch {
		case len(path) > MaxDepth:
			err = errors.New("E102").
				WithDetail(fmt.Sprintf("Node at depth %d exceeds the nesting limit of %d. The tree is probably cyclic.", len(path), MaxDepth))
		case !n.Type.Valid():
			err = errors.New("E103").
				WithDetail(fmt.Sprintf("Node at %s has type %q.", pathString(path), n.Type))
		case n.Type == TypeElement && n.TagName == "":
			err = errors.New("E100").
				WithDetail(fmt.Sprintf("Element at %s has no tagName.", pathString(path)))
		}
		return err == nil
	})
	return err
}

// pathString renders a child index path as "root.children[0].children[2]".
func pathString(path []int) string {
	var b strings.Builder
	b.WriteString("root")
	for _, i := range path {
		fmt.Fprintf(&b, ".children[%d]", i)
	}
	return b.String()
}
