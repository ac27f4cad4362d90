package markdown

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/vdom"
)

// MemoCompareNodes reports whether a component can skip re-rendering when
// its props change from prev to next. Only the nodes are compared.
func MemoCompareNodes(prev, next Props) bool {
	return hast.Equal(prev.Node, next.Node)
}

// memoConfig configures memo wrappers.
type memoConfig struct {
	compare func(prev, next Props) bool
	metrics *Metrics
	logger  *slog.Logger
}

// MemoOption configures MemoizeComponents and Memoize.
type MemoOption func(*memoConfig)

// WithCompare replaces the skip predicate. It must return true when the
// previous output can be reused.
func WithCompare(compare func(prev, next Props) bool) MemoOption {
	return func(c *memoConfig) {
		c.compare = compare
	}
}

// WithMemoMetrics records render and skip counts on m.
func WithMemoMetrics(m *Metrics) MemoOption {
	return func(c *memoConfig) {
		c.metrics = m
	}
}

// WithMemoLogger sets the logger used for comparison failures.
func WithMemoLogger(logger *slog.Logger) MemoOption {
	return func(c *memoConfig) {
		c.logger = logger
	}
}

func newMemoConfig(opts []MemoOption) memoConfig {
	cfg := memoConfig{logger: slog.Default().With("component", "markdown")}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Memo wraps a component so that it renders without the source node and,
// through an Instance, only when the node changes.
type Memo struct {
	name   string
	inner  Component
	config memoConfig
}

// Memoize wraps c. name identifies the component in metrics and logs,
// usually its registry key. A nil c yields nil and a *Memo is returned as is.
func Memoize(name string, c Component, opts ...MemoOption) Component {
	return memoize(name, c, newMemoConfig(opts))
}

func memoize(name string, c Component, cfg memoConfig) Component {
	c = present(c)
	if c == nil {
		return nil
	}
	if m, ok := c.(*Memo); ok {
		return m
	}
	return &Memo{name: name, inner: c, config: cfg}
}

// MemoizeComponents returns a new registry in which every non-nil entry is
// wrapped in a *Memo. Nil entries are kept as nil under the same key. The
// input is not modified.
func MemoizeComponents(c Components, opts ...MemoOption) Components {
	cfg := newMemoConfig(opts)

	var out Components
	if c.Elements != nil {
		out.Elements = make(map[Tag]Component, len(c.Elements))
		for tag, comp := range c.Elements {
			out.Elements[tag] = memoize(string(tag), comp, cfg)
		}
	}
	out.SyntaxHighlighter = memoize(SyntaxHighlighterKey, c.SyntaxHighlighter, cfg)
	out.CodeHeader = memoize(CodeHeaderKey, c.CodeHeader, cfg)
	out.roles = c.roles
	return out
}

// Name returns the name the memo was created with.
func (m *Memo) Name() string {
	return m.name
}

// Unwrap returns the wrapped component.
func (m *Memo) Unwrap() Component {
	return m.inner
}

// Render calls the wrapped component with the node stripped. It never
// skips; per-position caching lives in Instance.
func (m *Memo) Render(p Props) *vdom.VNode {
	return m.inner.Render(p.WithoutNode())
}

// NewInstance returns a fresh render cache for one position in a tree.
func (m *Memo) NewInstance() *Instance {
	return &Instance{memo: m}
}

// equal applies the skip predicate and accounts for comparison failures.
func (m *Memo) equal(prev, next Props) bool {
	if m.config.compare != nil {
		return m.config.compare(prev, next)
	}
	eq, err := hast.Compare(prev.Node, next.Node)
	if err != nil {
		m.config.metrics.compareError()
		m.config.logger.Debug("node comparison failed, re-rendering",
			"component", m.name,
			"error", err)
		return false
	}
	return eq
}

// Instance caches the last props and output of a memoized component at one
// position in a tree.
type Instance struct {
	memo *Memo

	mu    sync.Mutex
	valid bool
	last  Props
	out   *vdom.VNode
}

// Memo returns the memo the instance belongs to.
func (i *Instance) Memo() *Memo {
	return i.memo
}

// Cached returns the previous output if p would not trigger a re-render.
func (i *Instance) Cached(p Props) (*vdom.VNode, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.valid && i.memo.equal(i.last, p) {
		return i.out, true
	}
	return nil, false
}

// Render returns the previous output when the skip predicate holds for the
// previous and next props, and otherwise renders and caches the result.
func (i *Instance) Render(p Props) *vdom.VNode {
	out, _ := i.renderWith(p, nil)
	return out
}

// renderWith is Render with the children produced only when a render is
// needed. It reports whether the cached output was reused.
func (i *Instance) renderWith(p Props, children func() []*vdom.VNode) (*vdom.VNode, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.valid && i.memo.equal(i.last, p) {
		i.memo.config.metrics.skip(i.memo.name)
		return i.out, true
	}

	if children != nil {
		p.Children = children()
	}
	out := i.memo.Render(p)
	i.last = p
	i.out = out
	i.valid = true
	i.memo.config.metrics.render(i.memo.name)
	return out, false
}

// Reset drops the cached output.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.valid = false
	i.last = Props{}
	i.out = nil
}
