package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/markview/internal/errors"
	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/render"
	"github.com/vango-dev/markview/pkg/vdom"
)

func html(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	out, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	return out
}

func renderDoc(t *testing.T, r *Renderer, root *hast.Node) (string, Stats) {
	t.Helper()
	out, stats, err := r.Render(context.Background(), root)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return html(t, out), stats
}

func doc(paragraphs ...string) *hast.Node {
	root := hast.Root(hast.Element("h1", nil, hast.Text("Title")))
	for i, p := range paragraphs {
		root.Children = append(root.Children, paragraph(p, i+3))
	}
	return root
}

func TestRenderPlain(t *testing.T) {
	r := NewRenderer(Components{})
	got, stats := renderDoc(t, r, hast.Root(
		hast.Comment("ignored"),
		hast.Element("h1", nil, hast.Text("Title")),
		hast.Element("p", hast.Properties{"className": []any{"lead", "x"}},
			hast.Text("a "),
			hast.Element("a", hast.Properties{"href": "/go"}, hast.Text("link")),
		),
	))

	want := `<h1>Title</h1><p class="lead x">a <a href="/go">link</a></p>`
	if got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
	if stats.Elements != 3 || stats.Rendered != 0 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRenderNilRoot(t *testing.T) {
	out, _, err := NewRenderer(Components{}).Render(context.Background(), nil)
	if err != nil || out != nil {
		t.Errorf("Render(nil) = %v, %v; want nil, nil", out, err)
	}
}

func TestRenderIdenticalDocumentSkips(t *testing.T) {
	p := &counter{}
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{"p": p}}))

	first, stats := renderDoc(t, r, doc("one", "two", "three"))
	if stats.Rendered != 3 || stats.Skipped != 0 {
		t.Errorf("first stats = %+v, want 3 rendered", stats)
	}

	second, stats := renderDoc(t, r, doc("one", "two", "three"))
	if stats.Rendered != 0 || stats.Skipped != 3 {
		t.Errorf("second stats = %+v, want 0 rendered, 3 skipped", stats)
	}
	if first != second {
		t.Errorf("output changed:\n%s\n%s", first, second)
	}
	if p.calls != 3 {
		t.Errorf("component calls = %d, want 3", p.calls)
	}
}

func TestRenderChangedParagraph(t *testing.T) {
	p := &counter{}
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{"p": p}}))

	renderDoc(t, r, doc("one", "two", "three"))
	got, stats := renderDoc(t, r, doc("one", "TWO", "three"))

	if stats.Rendered != 1 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 1 rendered, 2 skipped", stats)
	}
	if !strings.Contains(got, "TWO") {
		t.Errorf("html = %q, want the changed text", got)
	}
	last := p.seen[len(p.seen)-1]
	if last.Node != nil {
		t.Error("memoized component received the node")
	}
}

func TestRenderAppendedParagraph(t *testing.T) {
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{"p": &counter{}}}))

	renderDoc(t, r, doc("one"))
	_, stats := renderDoc(t, r, doc("one", "two"))
	if stats.Rendered != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 rendered, 1 skipped", stats)
	}
	if stats.Instances != 2 {
		t.Errorf("Instances = %d, want 2", stats.Instances)
	}

	_, stats = renderDoc(t, r, doc("one"))
	if stats.Instances != 1 {
		t.Errorf("Instances after removal = %d, want 1", stats.Instances)
	}
}

func TestRenderNestedSkipKeepsInstances(t *testing.T) {
	p := &counter{}
	quote := &counter{}
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{
		"p":          p,
		"blockquote": quote,
	}}))

	build := func(text string) *hast.Node {
		return hast.Root(hast.Element("blockquote", nil,
			hast.Element("p", nil, hast.Text("quoted")),
			hast.Element("p", nil, hast.Text(text)),
		))
	}

	renderDoc(t, r, build("a"))
	_, stats := renderDoc(t, r, build("a"))
	if stats.Rendered != 0 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want the blockquote skipped", stats)
	}
	if stats.Instances != 3 {
		t.Errorf("Instances = %d, want 3", stats.Instances)
	}

	// Inner paragraph instances survived the skipped pass.
	_, stats = renderDoc(t, r, build("b"))
	if stats.Rendered != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want blockquote and one paragraph rendered", stats)
	}
	if p.calls != 3 {
		t.Errorf("paragraph calls = %d, want 3", p.calls)
	}
}

func TestRenderElementRootKeepsInstances(t *testing.T) {
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{
		"div": &counter{},
		"p":   &counter{},
	}}))

	build := func(second string) *hast.Node {
		return hast.Element("div", nil,
			hast.Element("p", nil, hast.Text("first")),
			hast.Element("p", nil, hast.Text(second)),
		)
	}

	renderDoc(t, r, build("a"))
	_, stats := renderDoc(t, r, build("a"))
	if stats.Rendered != 0 || stats.Skipped != 1 || stats.Instances != 3 {
		t.Errorf("stats = %+v, want the root skipped and 3 instances", stats)
	}

	_, stats = renderDoc(t, r, build("b"))
	if stats.Rendered != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want root and one paragraph rendered", stats)
	}
}

func TestRenderPlainComponentAlwaysCalled(t *testing.T) {
	p := &counter{}
	r := NewRenderer(Components{Elements: map[Tag]Component{"p": p}})

	renderDoc(t, r, doc("one"))
	_, stats := renderDoc(t, r, doc("one"))
	if stats.Rendered != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if p.calls != 2 {
		t.Errorf("calls = %d, want 2", p.calls)
	}
	if p.seen[0].Node == nil {
		t.Error("unmemoized component should receive the node")
	}
}

func TestRenderReset(t *testing.T) {
	p := &counter{}
	r := NewRenderer(MemoizeComponents(Components{Elements: map[Tag]Component{"p": p}}))

	renderDoc(t, r, doc("one"))
	r.Reset()
	_, stats := renderDoc(t, r, doc("one"))
	if stats.Rendered != 1 {
		t.Errorf("Rendered after Reset = %d, want 1", stats.Rendered)
	}
}

func TestRenderRawHTML(t *testing.T) {
	root := hast.Root(hast.Raw("<b>x</b>"), hast.Text("y"))

	got, _ := renderDoc(t, NewRenderer(Components{}), root)
	if got != "y" {
		t.Errorf("html = %q, want raw dropped", got)
	}

	got, _ = renderDoc(t, NewRenderer(Components{}, WithRawHTML(true)), root)
	if got != "<b>x</b>y" {
		t.Errorf("html = %q, want raw kept", got)
	}
}

func TestRenderInvalidDocument(t *testing.T) {
	root := hast.Root(&hast.Node{Type: "widget"})
	_, _, err := NewRenderer(Components{}).Render(context.Background(), root)
	if !errors.HasCode(err, "E103") {
		t.Errorf("Render() error = %v, want E103", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewRenderer(Components{}).Render(ctx, doc())
	if err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRenderDocumentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(reg))
	r := NewRenderer(Components{}, WithMetrics(metrics))

	renderDoc(t, r, doc("a"))
	renderDoc(t, r, doc("b"))

	if got := testutil.ToFloat64(metrics.documents); got != 2 {
		t.Errorf("documents = %v, want 2", got)
	}
}

func codeDoc(lang, code string) *hast.Node {
	var props hast.Properties
	if lang != "" {
		props = hast.Properties{"className": []any{"language-" + lang}}
	}
	return hast.Root(hast.Element("pre", nil,
		hast.Element("code", props, hast.Text(code)),
	))
}

func TestRenderCodeBlockRoles(t *testing.T) {
	header := &counter{}
	highlighter := &counter{}
	r := NewRenderer(MemoizeComponents(Components{
		SyntaxHighlighter: highlighter,
		CodeHeader:        header,
	}))

	_, stats := renderDoc(t, r, codeDoc("go", "fmt.Println()\n"))
	if stats.Rendered != 2 {
		t.Errorf("Rendered = %d, want 2", stats.Rendered)
	}
	if len(highlighter.seen) != 1 || len(header.seen) != 1 {
		t.Fatalf("role calls = %d, %d", len(highlighter.seen), len(header.seen))
	}
	h := highlighter.seen[0]
	if h.Language != "go" || h.Code != "fmt.Println()\n" || h.Node != nil {
		t.Errorf("highlighter props = %+v", h)
	}
	if header.seen[0].Language != "go" {
		t.Errorf("header language = %q", header.seen[0].Language)
	}

	_, stats = renderDoc(t, r, codeDoc("go", "fmt.Println()\n"))
	if stats.Rendered != 0 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want both roles skipped", stats)
	}

	_, stats = renderDoc(t, r, codeDoc("go", "fmt.Println(1)\n"))
	if stats.Rendered != 2 {
		t.Errorf("Rendered = %d, want 2 after a code change", stats.Rendered)
	}
}

func TestRenderCodeHeaderOnly(t *testing.T) {
	r := NewRenderer(Components{CodeHeader: ComponentFunc(CodeHeader)})
	got, _ := renderDoc(t, r, codeDoc("", "x"))
	want := `<div class="code-header"><span class="code-language">text</span>` +
		`<button aria-label="Copy code" class="code-copy" type="button">Copy</button></div>` +
		`<pre><code>x</code></pre>`
	if got != want {
		t.Errorf("html = %q\nwant   %q", got, want)
	}
}

func TestRenderPreWithoutCode(t *testing.T) {
	highlighter := &counter{}
	r := NewRenderer(Components{SyntaxHighlighter: highlighter})
	got, _ := renderDoc(t, r, hast.Root(hast.Element("pre", nil, hast.Text("plain"))))
	if got != "<pre>plain</pre>" {
		t.Errorf("html = %q", got)
	}
	if highlighter.calls != 0 {
		t.Error("highlighter called for a pre without code")
	}
}

func TestRenderDefaults(t *testing.T) {
	r := NewRenderer(MemoizeComponents(Defaults()))
	root := hast.Root(
		hast.Element("p", nil,
			hast.Element("a", hast.Properties{"href": "https://go.dev"}, hast.Text("Go")),
		),
		hast.Element("pre", nil,
			hast.Element("code", hast.Properties{"className": []any{"language-go"}},
				hast.Text("a\nb\n")),
		),
	)
	got, _ := renderDoc(t, r, root)

	for _, want := range []string{
		`<a href="https://go.dev" rel="noopener noreferrer" target="_blank">Go</a>`,
		`<span class="code-language">go</span>`,
		`<pre class="code-block" data-language="go"><code class="language-go">` +
			`<span class="line">a</span>` + "\n" + `<span class="line">b</span></code></pre>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html missing %q\n%s", want, got)
		}
	}
}

type spanRecorder struct {
	noop.Tracer
	names []string
}

func (r *spanRecorder) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.names = append(r.names, name)
	return r.Tracer.Start(ctx, name, opts...)
}

func TestRenderTracer(t *testing.T) {
	tracer := &spanRecorder{}
	r := NewRenderer(Components{}, WithTracer(tracer))
	renderDoc(t, r, doc("a"))
	renderDoc(t, r, doc("a", "b"))

	if len(tracer.names) != 2 || tracer.names[0] != "markview.Render" {
		t.Errorf("spans = %v", tracer.names)
	}

	// The global provider is a no-op unless configured.
	r = NewRenderer(Components{}, WithTracerName("custom"))
	if got, _ := renderDoc(t, r, doc("a")); !strings.Contains(got, `<p class="lead">a</p>`) {
		t.Errorf("html = %q", got)
	}
}
