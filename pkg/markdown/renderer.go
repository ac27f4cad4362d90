package markdown

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/vdom"
)

// Default tracer name for document renders.
const defaultTracerName = "markview"

type rendererConfig struct {
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	allowRaw bool
}

// Option configures a Renderer.
type Option func(*rendererConfig)

// WithLogger sets the renderer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *rendererConfig) {
		c.logger = logger
	}
}

// WithMetrics records document render counts and durations on m.
func WithMetrics(m *Metrics) Option {
	return func(c *rendererConfig) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *rendererConfig) {
		c.tracer = tracer
	}
}

// WithTracerName uses the named tracer from the global provider.
func WithTracerName(name string) Option {
	return func(c *rendererConfig) {
		c.tracer = otel.Tracer(name)
	}
}

// WithRawHTML renders raw HTML nodes unescaped. By default they are
// dropped. Only enable it for trusted documents.
func WithRawHTML(allow bool) Option {
	return func(c *rendererConfig) {
		c.allowRaw = allow
	}
}

// Stats describes one Render call.
type Stats struct {
	// Elements is the number of element nodes visited.
	Elements int
	// Rendered counts component invocations.
	Rendered int
	// Skipped counts memoized components whose previous output was reused.
	Skipped int
	// Instances is the number of live memo instances after the render.
	Instances int
	// Duration is the wall time of the render.
	Duration time.Duration
}

// Renderer renders successive versions of one document. It remembers a
// memo Instance for every memoized component position, so unchanged blocks
// are reused across calls to Render.
//
// A Renderer is safe for concurrent use, but renders are serialized.
type Renderer struct {
	components Components
	config     rendererConfig

	mu        sync.Mutex
	pass      uint64
	instances map[string]*slot
}

type slot struct {
	inst *Instance
	path string
	seen uint64
}

// NewRenderer creates a Renderer that installs components as tag overrides.
// Memoized entries (see MemoizeComponents) are cached per tree position;
// other entries are called on every render.
func NewRenderer(components Components, opts ...Option) *Renderer {
	config := rendererConfig{
		logger: slog.Default().With("component", "markdown"),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if unknown := components.UnknownTags(); len(unknown) > 0 {
		config.logger.Debug("components registered for non-standard tags", "tags", unknown)
	}
	return &Renderer{
		components: components,
		config:     config,
		instances:  make(map[string]*slot),
	}
}

// Components returns the registry the renderer was created with.
func (r *Renderer) Components() Components {
	return r.components
}

// Render converts root to a VNode tree.
func (r *Renderer) Render(ctx context.Context, root *hast.Node) (*vdom.VNode, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	_, span := r.config.tracer.Start(ctx, "markview.Render")
	defer span.End()

	if err := hast.Validate(root); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, Stats{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	r.pass++
	p := &pass{r: r, skipped: make(map[string]bool)}

	var out *vdom.VNode
	if root != nil {
		out = p.node(root, "")
	}
	r.sweep(p)

	p.stats.Instances = len(r.instances)
	p.stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("markview.elements", p.stats.Elements),
		attribute.Int("markview.rendered", p.stats.Rendered),
		attribute.Int("markview.skipped", p.stats.Skipped),
	)
	r.config.metrics.document(p.stats.Duration)
	r.config.logger.Debug("document rendered",
		"elements", p.stats.Elements,
		"rendered", p.stats.Rendered,
		"skipped", p.stats.Skipped,
		"duration", p.stats.Duration)

	return out, p.stats, nil
}

// Reset forgets all memo instances; the next Render calls every component.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]*slot)
}

// instance returns the memo instance for name at path, creating it if the
// position is new or held a different memo.
func (r *Renderer) instance(path, name string, m *Memo) *Instance {
	key := path + "|" + name
	s, ok := r.instances[key]
	if !ok || s.inst.Memo() != m {
		s = &slot{inst: m.NewInstance(), path: path}
		r.instances[key] = s
	}
	s.seen = r.pass
	return s.inst
}

// sweep drops instances that were neither visited nor inside a reused subtree.
func (r *Renderer) sweep(p *pass) {
	for key, s := range r.instances {
		if s.seen == r.pass {
			continue
		}
		if p.covered(s.path) {
			s.seen = r.pass
			continue
		}
		delete(r.instances, key)
	}
}

// pass holds the state of one Render call.
type pass struct {
	r       *Renderer
	stats   Stats
	skipped map[string]bool
}

// covered reports whether path lies below a subtree whose output was reused.
// The document node itself has the empty path.
func (p *pass) covered(path string) bool {
	for path != "" {
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			path = path[:i]
		} else {
			path = ""
		}
		if p.skipped[path] {
			return true
		}
	}
	return false
}

func childPath(path string, i int) string {
	if path == "" {
		return strconv.Itoa(i)
	}
	return path + "." + strconv.Itoa(i)
}

func (p *pass) node(n *hast.Node, path string) *vdom.VNode {
	switch n.Type {
	case hast.TypeRoot:
		return vdom.Fragment(p.children(n, path)...)
	case hast.TypeText:
		return vdom.Text(n.Value)
	case hast.TypeRaw:
		if p.r.config.allowRaw {
			return vdom.Raw(n.Value)
		}
		return nil
	case hast.TypeElement:
		p.stats.Elements++
		if n.TagName == "pre" {
			if out, ok := p.codeBlock(n, path); ok {
				return out
			}
		}
		return p.element(n, path)
	}
	// Comments and doctypes are not rendered.
	return nil
}

func (p *pass) children(n *hast.Node, path string) []*vdom.VNode {
	if len(n.Children) == 0 {
		return nil
	}
	out := make([]*vdom.VNode, 0, len(n.Children))
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		if v := p.node(c, childPath(path, i)); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// element renders n through its registry override, or as a plain element.
func (p *pass) element(n *hast.Node, path string) *vdom.VNode {
	props := Props{Node: n, Tag: n.TagName, Attrs: Attributes(n.Properties)}
	children := func() []*vdom.VNode { return p.children(n, path) }

	comp := p.r.components.Lookup(n.TagName)
	if comp == nil {
		return vdom.El(n.TagName, props.Attrs, children())
	}
	return p.invoke(comp, n.TagName, path, props, children)
}

// invoke calls comp for the node at path, going through a memo instance
// when comp is memoized.
func (p *pass) invoke(comp Component, name, path string, props Props, children func() []*vdom.VNode) *vdom.VNode {
	m, ok := comp.(*Memo)
	if !ok {
		if children != nil {
			props.Children = children()
		}
		p.stats.Rendered++
		return comp.Render(props)
	}

	out, reused := p.r.instance(path, name, m).renderWith(props, children)
	if reused {
		p.stats.Skipped++
		p.skipped[path] = true
	} else {
		p.stats.Rendered++
	}
	return out
}
