package hast

import (
	"reflect"
	"testing"
)

func TestWalkPaths(t *testing.T) {
	root := Root(
		Element("p", nil, Text("a")),
		Element("ul", nil, Element("li", nil, Text("b")), Element("li", nil, Text("c"))),
	)

	var paths [][]int
	Walk(root, func(n *Node, path []int) bool {
		if n.IsElement("li") {
			paths = append(paths, append([]int(nil), path...))
		}
		return true
	})

	want := [][]int{{1, 0}, {1, 1}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("li paths = %v, want %v", paths, want)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	root := Root(Element("pre", nil, Element("code", nil, Text("x"))))
	var seen []string
	Walk(root, func(n *Node, _ []int) bool {
		seen = append(seen, string(n.Type)+":"+n.TagName)
		return !n.IsElement("pre")
	})
	if len(seen) != 2 {
		t.Errorf("visited %v, want root and pre only", seen)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Element("code", Properties{"className": []any{"language-go"}}, Text("x"))
	c := orig.Clone()

	c.Properties["className"].([]any)[0] = "language-rust"
	c.Children[0].Value = "y"

	if orig.ClassNames()[0] != "language-go" {
		t.Error("Clone shared the className slice")
	}
	if orig.Children[0].Value != "x" {
		t.Error("Clone shared children")
	}
	if (*Node)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestBuildersDropNil(t *testing.T) {
	n := Element("p", nil, nil, Text("x"), nil)
	if len(n.Children) != 1 {
		t.Errorf("children = %d, want 1", len(n.Children))
	}
}

func TestTextContent(t *testing.T) {
	n := Element("p", nil, Text("a"), Element("em", nil, Text("b")), Comment("no"), Text("c"))
	if got := n.TextContent(); got != "abc" {
		t.Errorf("TextContent() = %q, want abc", got)
	}
}
