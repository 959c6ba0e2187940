package interact

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoview/pkg/metadata"
	"github.com/matzehuels/topoview/pkg/node"
	"github.com/matzehuels/topoview/pkg/observability"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
)

const (
	// LoopbackKey is the metadata class that enables the telnet shortcut.
	LoopbackKey = "loopback"

	// Target is the window name passed to the opener.
	Target = "_blank"

	// ShortcutAttr is the group attribute holding the shortcut URL, read by
	// the script embedded in SVG output.
	ShortcutAttr = "data-shortcut"
)

// ShortcutURL returns the telnet shortcut for a node name and loopback
// address.
func ShortcutURL(name, loopback string) string {
	return "telnet:// /N " + name + " /TELNET " + loopback
}

// Shortcut returns the shortcut URL for n, or false when n has no loopback
// entry.
func Shortcut(n *node.Node) (string, bool) {
	lb, ok := metadata.Map(n.Meta())[LoopbackKey]
	if !ok {
		return "", false
	}
	return ShortcutURL(n.Name(), lb), true
}

// Option configures Bind.
type Option func(*binder)

type binder struct {
	ctx    context.Context
	logger *log.Logger
}

// WithLogger sets the logger used for failed opens.
func WithLogger(l *log.Logger) Option {
	return func(b *binder) { b.logger = l }
}

// WithContext sets the context passed to the opener.
func WithContext(ctx context.Context) Option {
	return func(b *binder) { b.ctx = ctx }
}

// Bind attaches a double-click handler to every handle's group and stamps
// the shortcut attribute on groups that have one.
func Bind(handles []render.Handle, opener Opener, opts ...Option) {
	b := binder{ctx: context.Background(), logger: log.Default()}
	for _, opt := range opts {
		opt(&b)
	}
	if opener == nil {
		opener = NopOpener{}
	}

	for _, h := range handles {
		n := h.Node
		if url, ok := Shortcut(n); ok {
			h.Group.SetAttr(ShortcutAttr, url)
		}
		h.Group.On(scene.DoubleClick, func(ev *scene.Event) {
			ev.StopPropagation()
			url, ok := Shortcut(n)
			if !ok {
				return
			}
			err := opener.Open(b.ctx, url, Target)
			if err != nil {
				b.logger.Warn("could not open shortcut", "node", n.Name(), "url", url, "err", err)
				ev.Err = err
			}
			observability.Interaction().OnShortcut(b.ctx, n.Name(), url, err)
		})
	}
}
