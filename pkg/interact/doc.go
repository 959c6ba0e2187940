// Package interact wires node behavior onto a rendered scene.
//
// Rendering (package render) only draws; this package attaches handlers.
// [Bind] registers a double-click handler on every node group. When the
// node carries a "loopback" metadata entry the handler asks the host to
// open a telnet shortcut for it:
//
//	telnet:// /N router1 /TELNET 10.0.0.1
//
// The handler stops propagation so surface-level gestures (zoom) never see
// the double-click. Nodes without a loopback entry get the handler too; it
// simply does nothing.
//
// The host side effect goes through an [Opener]. [SystemOpener] hands the
// URL to the desktop (xdg-open, open, start); tests and headless callers
// pass their own.
package interact
