// Package server exposes the diagram pipeline over HTTP.
//
//	POST /render?format=svg|png|json   body: topology (JSON or YAML by Content-Type)
//	GET  /healthz
//	GET  /version
//
// Query parameters on /render mirror the CLI flags: engine, meta_keys
// (comma separated), font_size, scale, strict, title, refresh.
// Errors are returned as {"code": ..., "message": ..., "node": ...}; node
// is set when the failure concerns a single topology node.
package server

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/topoview/pkg/buildinfo"
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/icons"
	"github.com/matzehuels/topoview/pkg/interact"
	"github.com/matzehuels/topoview/pkg/pipeline"
	"github.com/matzehuels/topoview/pkg/topology"
)

// Defaults for Options.
const (
	DefaultMaxBodySize = 1 << 20
	DefaultTimeout     = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	MaxBodySize int64
	Timeout     time.Duration
	// Defaults seeds every render request before query parameters apply.
	Defaults pipeline.Options
	// Icons loads icon hrefs from request bodies for PNG output. Bodies
	// are untrusted, so use icons.NewConfinedLoader. Nil draws
	// placeholders.
	Icons *icons.Loader
}

// Server serves rendered diagrams.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New returns a server running requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	// The server never touches the caller's icon loader or opener.
	rc := *runner
	rc.Icons = opts.Icons
	rc.Opener = interact.NopOpener{}
	return &Server{runner: &rc, logger: logger, opts: opts}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/render", s.handleRender)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodySize))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	topo, err := topology.Parse(data, topology.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), topo, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res.Deferred {
		s.writeError(w, errors.New(errors.ErrCodeNoGeometry, "text measurement unavailable"))
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Diagram-Id", res.Diagram.ID.String())
	w.Header().Set("X-Cache", cacheHeader(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// renderOptions applies query parameters over the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts.Defaults.Clone()
	opts.Logger = s.logger
	opts.OnTick = nil
	opts.TickDuration = 0

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}

	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	if v := q.Get("meta_keys"); v != "" {
		opts.MetaKeys = strings.Split(v, ",")
	}
	var err error
	if opts.FontSize, err = floatParam(q.Get("font_size"), opts.FontSize, "font_size"); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q.Get("scale"), opts.Scale, "scale"); err != nil {
		return opts, err
	}
	if opts.Strict, err = boolParam(q.Get("strict"), opts.Strict, "strict"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh"), false, "refresh"); err != nil {
		return opts, err
	}
	// Requests get the final frame only.
	opts.Ticks = 0
	return opts, nil
}

func floatParam(v string, def float64, name string) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", name)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %s is not a finite number", name, v)
	}
	return f, nil
}

func boolParam(v string, def bool, name string) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", name)
	}
	return b, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
