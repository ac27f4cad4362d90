package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEl(t *testing.T) {
	node := El("div",
		nil,
		Class("card", "", "wide"),
		Props{"data-x": "1"},
		[]Attr{ID("main"), Key("k1")},
		El("span", "label"),
		[]*VNode{Text("a"), nil, Text("b")},
		"tail",
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("El() = %v", node)
	}
	if node.Props["class"] != "card wide" {
		t.Errorf("class = %v, want %q", node.Props["class"], "card wide")
	}
	if node.Props["id"] != "main" || node.Props["data-x"] != "1" {
		t.Errorf("props = %v", node.Props)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
	if node.Key != "k1" {
		t.Errorf("Key = %q, want k1", node.Key)
	}
	if got, want := node.String(), `div#k1(span("label"), "a", "b", "tail")`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestClassEmpty(t *testing.T) {
	if !Class().IsEmpty() || !Class("", "").IsEmpty() {
		t.Error("Class with no names should be empty")
	}
	node := El("p", Class(""))
	if _, ok := node.Props["class"]; ok {
		t.Error("empty Class should not set the attribute")
	}
}

func TestFragmentDropsNil(t *testing.T) {
	f := Fragment(Text("a"), nil, Raw("<b>x</b>"))
	if len(f.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(f.Children))
	}
	if got := f.String(); got != `fragment("a", raw("<b>x</b>"))` {
		t.Errorf("String() = %s", got)
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") || !IsVoidElement("img") {
		t.Error("br and img are void elements")
	}
	if IsVoidElement("div") {
		t.Error("div is not a void element")
	}
}

func TestPropsClone(t *testing.T) {
	p := Props{"a": 1}
	c := p.Clone()
	c["a"] = 2
	if p["a"] != 1 {
		t.Error("Clone shares storage")
	}
	if Props(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
