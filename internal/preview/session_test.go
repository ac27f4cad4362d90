package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/markview/pkg/markdown"
	"github.com/vango-dev/markview/pkg/render"
	"github.com/vango-dev/markview/pkg/vdom"
)

const threeParagraphs = `{"type":"root","children":[
  {"type":"element","tagName":"p","children":[{"type":"text","value":"one"}]},
  {"type":"element","tagName":"p","children":[{"type":"text","value":"two"}]},
  {"type":"element","tagName":"p","children":[{"type":"text","value":"three"}]}
]}`

func paragraphComponents() markdown.Components {
	return markdown.Components{Elements: map[markdown.Tag]markdown.Component{
		"p": markdown.ComponentFunc(func(p markdown.Props) *vdom.VNode {
			return vdom.El("p", vdom.Class("para"), p.Children)
		}),
	}}
}

func newTestSession() *Session {
	r := markdown.NewRenderer(markdown.MemoizeComponents(paragraphComponents()))
	return NewSession(r, render.NewRenderer(render.RendererConfig{}))
}

func snapshot(doc string) []byte {
	return []byte(`{"type":"snapshot","doc":` + doc + `}`)
}

func TestSessionSnapshotAndPatch(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()

	reply := s.Handle(ctx, snapshot(threeParagraphs))
	if reply.Type != MessageRender {
		t.Fatalf("snapshot reply = %+v", reply)
	}
	if reply.Rendered != 3 || reply.Skipped != 0 {
		t.Errorf("snapshot stats = %d rendered, %d skipped", reply.Rendered, reply.Skipped)
	}
	want := `<p class="para">one</p><p class="para">two</p><p class="para">three</p>`
	if reply.HTML != want {
		t.Errorf("HTML = %q, want %q", reply.HTML, want)
	}

	reply = s.Handle(ctx, []byte(`{"type":"patch","patch":[
		{"op":"replace","path":"/children/1/children/0/value","value":"TWO"}
	]}`))
	if reply.Type != MessageRender {
		t.Fatalf("patch reply = %+v", reply)
	}
	if reply.Rendered != 1 || reply.Skipped != 2 {
		t.Errorf("patch stats = %d rendered, %d skipped; want 1, 2", reply.Rendered, reply.Skipped)
	}
	if !strings.Contains(reply.HTML, `<p class="para">TWO</p>`) {
		t.Errorf("HTML = %q", reply.HTML)
	}

	// Patches apply to the patched document, not the first snapshot.
	reply = s.Handle(ctx, []byte(`{"type":"patch","patch":[
		{"op":"remove","path":"/children/2"}
	]}`))
	if reply.Type != MessageRender || strings.Contains(reply.HTML, "three") || !strings.Contains(reply.HTML, "TWO") {
		t.Errorf("second patch reply = %+v", reply)
	}
	if reply.Rendered != 0 || reply.Skipped != 2 {
		t.Errorf("remove stats = %d rendered, %d skipped; want 0, 2", reply.Rendered, reply.Skipped)
	}
}

func TestSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		msgs []string
		code string
	}{
		{"invalid json", []string{`{"type":`}, "E130"},
		{"unknown type", []string{`{"type":"hello"}`}, "E130"},
		{"empty snapshot", []string{`{"type":"snapshot"}`}, "E130"},
		{"patch before snapshot", []string{`{"type":"patch","patch":[]}`}, "E131"},
		{"malformed patch", []string{string(snapshot(threeParagraphs)), `{"type":"patch","patch":{"op":"x"}}`}, "E131"},
		{"patch path missing", []string{
			string(snapshot(threeParagraphs)),
			`{"type":"patch","patch":[{"op":"replace","path":"/children/9/value","value":"x"}]}`,
		}, "E131"},
		{"unknown node type", []string{string(snapshot(`{"type":"root","children":[{"type":"widget"}]}`))}, "E103"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			var reply ServerMessage
			for _, m := range tt.msgs {
				reply = s.Handle(context.Background(), []byte(m))
			}
			if reply.Type != MessageError {
				t.Fatalf("reply = %+v, want an error", reply)
			}
			if reply.Code != tt.code {
				t.Errorf("Code = %q, want %q (%s)", reply.Code, tt.code, reply.Error)
			}
		})
	}
}

func TestSessionFailedPatchKeepsSnapshot(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()

	s.Handle(ctx, snapshot(threeParagraphs))
	bad := s.Handle(ctx, []byte(`{"type":"patch","patch":[{"op":"replace","path":"/children/9/value","value":"x"}]}`))
	if bad.Type != MessageError {
		t.Fatalf("reply = %+v, want an error", bad)
	}

	reply := s.Handle(ctx, []byte(`{"type":"patch","patch":[
		{"op":"replace","path":"/children/0/children/0/value","value":"ONE"}
	]}`))
	if reply.Type != MessageRender || reply.Rendered != 1 || reply.Skipped != 2 {
		t.Errorf("reply = %+v", reply)
	}
}
