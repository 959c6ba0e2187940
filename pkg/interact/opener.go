package interact

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener asks the host environment to open a URL.
type Opener interface {
	Open(ctx context.Context, url, target string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, url, target string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, url, target string) error { return f(ctx, url, target) }

// SystemOpener opens URLs with the platform's URL handler. The target
// window name is ignored; the desktop decides where the URL opens.
type SystemOpener struct{}

// Open starts the platform handler for url without waiting for it.
func (SystemOpener) Open(ctx context.Context, url, _ string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// NopOpener discards every request.
type NopOpener struct{}

// Open does nothing.
func (NopOpener) Open(context.Context, string, string) error { return nil }
