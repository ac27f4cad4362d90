package preview

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/markview/internal/config"
	"github.com/vango-dev/markview/internal/errors"
	"github.com/vango-dev/markview/internal/source"
	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/markdown"
	"github.com/vango-dev/markview/pkg/render"
)

// maxBodySize limits POST /render bodies.
const maxBodySize = 8 << 20

// Options configures the preview server.
type Options struct {
	// Config is the markview configuration. Defaults to config.New().
	Config *config.Config

	// Components are the component overrides. They are memoized when the
	// configuration asks for it. Defaults to markdown.Defaults().
	Components *markdown.Components

	// Registry registers and serves the metrics. Defaults to the global
	// Prometheus registry.
	Registry *prometheus.Registry

	// Logger is the server logger.
	Logger *slog.Logger
}

// Server is the live preview server.
type Server struct {
	config     *config.Config
	components markdown.Components
	metrics    *markdown.Metrics
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	hub        *Hub
	router     chi.Router

	mu       sync.RWMutex
	document *hast.Node
	title    string
}

// New creates a preview server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "preview")
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	s := &Server{
		config:   cfg,
		gatherer: gatherer,
		logger:   logger,
		title:    cfg.Server.Title,
	}

	var gauge prometheus.Gauge
	if cfg.Metrics.Enabled {
		s.metrics = markdown.NewMetrics(
			markdown.WithNamespace(cfg.Metrics.Namespace),
			markdown.WithRegistry(registerer),
		)
		gauge = promauto.With(registerer).NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Metrics.Namespace,
			Name:      "preview_connections",
			Help:      "Open preview WebSocket connections",
		})
	}

	components := markdown.Defaults()
	if opts.Components != nil {
		components = *opts.Components
	}
	if cfg.Memoized() {
		components = markdown.MemoizeComponents(components,
			markdown.WithMemoMetrics(s.metrics),
			markdown.WithMemoLogger(logger))
	}
	s.components = components

	s.hub = NewHub(s.newSession, logger, gauge)
	s.hub.current = s.Document
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Post("/render", s.handleRender)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.config.Metrics.Enabled {
		r.Handle(s.config.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// NewRenderer returns a document renderer configured like the ones used by
// connections.
func (s *Server) NewRenderer() *markdown.Renderer {
	return markdown.NewRenderer(s.components,
		markdown.WithMetrics(s.metrics),
		markdown.WithTracerName(s.config.Tracing.Name),
		markdown.WithRawHTML(s.config.Render.AllowRawHTML),
		markdown.WithLogger(s.logger))
}

func (s *Server) htmlRenderer() *render.Renderer {
	return render.NewRenderer(render.RendererConfig{
		Pretty: s.config.Render.Pretty,
		Indent: s.config.Render.Indent,
	})
}

func (s *Server) newSession() *Session {
	return NewSession(s.NewRenderer(), s.htmlRenderer())
}

// Document returns the document shown on the index page.
func (s *Server) Document() *hast.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// SetDocument replaces the document and pushes it to every connection.
func (s *Server) SetDocument(ctx context.Context, root *hast.Node, title string) {
	s.mu.Lock()
	s.document = root
	if title != "" {
		s.title = title
	}
	s.mu.Unlock()
	s.hub.Broadcast(ctx, root)
}

// Watch reloads src through loader whenever it changes on disk, until ctx
// is done.
func (s *Server) Watch(ctx context.Context, loader *source.Loader, src string) error {
	w := NewWatcher(WatcherConfig{Path: src})
	w.OnChange(func(path string) {
		doc, err := loader.Load(ctx, path)
		if err != nil {
			s.logger.Warn("reload failed", "source", path, "error", err)
			return
		}
		s.logger.Info("document changed", "source", path, "clients", s.hub.ClientCount())
		s.SetDocument(ctx, doc.Root, "")
	})
	return w.Start(ctx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	root, title := s.document, s.title
	s.mu.RUnlock()

	page := render.PageData{
		Title:   title,
		Styles:  []string{DefaultStyles},
		Scripts: []string{ClientScript},
	}
	if root != nil {
		out, _, err := s.NewRenderer().Render(r.Context(), root)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		page.Body = out
	}

	var buf bytes.Buffer
	if err := s.htmlRenderer().RenderPage(&buf, page); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("E100").Wrap(err))
		return
	}

	name := "request.html"
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		name = "request.json"
	} else if mt == "" {
		name = "request"
	}
	root, _, err := source.Decode(name, data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	out, stats, err := s.NewRenderer().Render(r.Context(), root)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	html, err := s.htmlRenderer().RenderToString(out)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Markview-Elements", strconv.Itoa(stats.Elements))
	w.Header().Set("X-Markview-Rendered", strconv.Itoa(stats.Rendered))
	w.Write([]byte(html))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug("request failed", "status", status, "error", err)

	body := errorMessage(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	return srv.Shutdown(shutdownCtx)
}
