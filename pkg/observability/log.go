package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Logger implements every hook family by writing debug records.
type Logger struct {
	L *log.Logger
}

// LogHooks returns a Hooks value whose families all log to l.
func LogHooks(l *log.Logger) Hooks {
	h := Logger{L: l}
	return Hooks{Pipeline: h, Cache: h, HTTP: h, Interaction: h}
}

func (h Logger) done(stage string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", d)
	if err != nil {
		h.L.Debug(stage+" failed", append(keyvals, "err", err)...)
		return
	}
	h.L.Debug(stage+" done", keyvals...)
}

func (h Logger) OnBuildStart(_ context.Context, nodes int) {
	h.L.Debug("build", "nodes", nodes)
}

func (h Logger) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.done("build", d, err, "nodes", nodes, "edges", edges)
}

func (h Logger) OnRenderStart(_ context.Context, nodes int) {
	h.L.Debug("render", "nodes", nodes)
}

func (h Logger) OnRenderComplete(_ context.Context, nodes int, d time.Duration, err error) {
	h.done("render", d, err, "nodes", nodes)
}

func (h Logger) OnLayoutStart(_ context.Context, engine string, nodes int) {
	h.L.Debug("layout", "engine", engine, "nodes", nodes)
}

func (h Logger) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	h.done("layout", d, err, "engine", engine)
}

func (h Logger) OnExport(_ context.Context, format string, size int, d time.Duration, err error) {
	h.done("export", d, err, "format", format, "bytes", size)
}

func (h Logger) OnCacheHit(_ context.Context, keyType string) {
	h.L.Debug("cache hit", "kind", keyType)
}

func (h Logger) OnCacheMiss(_ context.Context, keyType string) {
	h.L.Debug("cache miss", "kind", keyType)
}

func (h Logger) OnCacheSet(_ context.Context, keyType string, size int) {
	h.L.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h Logger) OnRequest(_ context.Context, method, host, path string) {
	h.L.Debug("http request", "method", method, "host", host, "path", path)
}

func (h Logger) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.L.Debug("http response", "method", method, "host", host, "path", path, "status", status, "elapsed", d)
}

func (h Logger) OnError(_ context.Context, method, host, path string, err error) {
	h.L.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h Logger) OnShortcut(_ context.Context, node, url string, err error) {
	if err != nil {
		h.L.Warn("shortcut failed", "node", node, "url", url, "err", err)
		return
	}
	h.L.Debug("shortcut", "node", node, "url", url)
}
