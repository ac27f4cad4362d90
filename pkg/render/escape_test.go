package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`"quoted" 'single'`, "&quot;quoted&quot; &#39;single&#39;"},
		{"line\nbreak", "line\nbreak"},
	}
	for _, tt := range tests {
		if got := escapeHTML(tt.in); got != tt.want {
			t.Errorf("escapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeAttr(t *testing.T) {
	if got := escapeAttr("a\"b\nc\td"); got != "a&quot;b&#10;c&#9;d" {
		t.Errorf("escapeAttr() = %q", got)
	}
}
