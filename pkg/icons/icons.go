// Package icons loads node icon images for rasterization.
//
// An icon href is either an http(s) URL, fetched through an
// [httputil.Fetcher] (cached and retried), or a path resolved against the
// loader's base directory. PNG, JPEG, GIF, BMP and WebP decode; vector
// icons (SVG) cannot be rasterized and report UNSUPPORTED, which the PNG
// sink draws as a placeholder.
package icons

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/httputil"
)

// DefaultMaxEntries bounds the decoded-image memo when a Loader does not
// set MaxEntries.
const DefaultMaxEntries = 128

// Loader resolves and decodes icons. Decoded images are memoized per
// href, oldest first out once MaxEntries is reached; it is safe for
// concurrent use.
type Loader struct {
	// BaseDir resolves relative paths. Empty means the working directory.
	BaseDir string
	// Fetcher downloads remote icons. Nil disables remote icons.
	Fetcher *httputil.Fetcher
	// Confined restricts local icons to relative paths under BaseDir.
	// An empty BaseDir then disables local icons.
	Confined bool
	// MaxEntries caps the memo. Zero means DefaultMaxEntries.
	MaxEntries int

	mu    sync.Mutex
	memo  map[string]image.Image
	order []string
}

// NewLoader returns a loader for paths under baseDir and remote icons
// through f.
func NewLoader(baseDir string, f *httputil.Fetcher) *Loader {
	return &Loader{BaseDir: baseDir, Fetcher: f}
}

// NewConfinedLoader returns a loader for hrefs from untrusted input: only
// relative paths inside dir are read and remote icons are never fetched.
func NewConfinedLoader(dir string) *Loader {
	return &Loader{BaseDir: dir, Confined: true}
}

// Load returns the decoded image for href.
func (l *Loader) Load(ctx context.Context, href string) (image.Image, error) {
	l.mu.Lock()
	if img, ok := l.memo[href]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	data, err := l.read(ctx, href)
	if err != nil {
		return nil, err
	}
	if isSVG(href, data) {
		return nil, errors.New(errors.ErrCodeUnsupported, "cannot rasterize vector icon %s", href)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "decode icon %s", href)
	}
	l.remember(href, img)
	return img, nil
}

// Len returns the number of memoized images.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.memo)
}

func (l *Loader) remember(href string, img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.memo == nil {
		l.memo = make(map[string]image.Image)
	}
	if _, ok := l.memo[href]; ok {
		return
	}
	limit := l.MaxEntries
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	for len(l.order) >= limit {
		delete(l.memo, l.order[0])
		l.order = l.order[1:]
	}
	l.memo[href] = img
	l.order = append(l.order, href)
}

func (l *Loader) read(ctx context.Context, href string) ([]byte, error) {
	if IsRemote(href) {
		if l.Fetcher == nil || l.Confined {
			return nil, errors.New(errors.ErrCodeUnsupported, "remote icons disabled: %s", href)
		}
		return l.Fetcher.Get(ctx, href)
	}
	if err := errors.ValidatePath(href); err != nil {
		return nil, err
	}
	if l.Confined {
		if l.BaseDir == "" {
			return nil, errors.New(errors.ErrCodeUnsupported, "local icons disabled: %s", href)
		}
		if filepath.IsAbs(href) || filepath.VolumeName(href) != "" || strings.HasPrefix(href, "/") {
			return nil, errors.New(errors.ErrCodeInvalidPath, "icon path must be relative: %s", href)
		}
	}
	path := href
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "icon %s", href)
	}
	return data, err
}

// IsRemote reports whether href is an http(s) URL.
func IsRemote(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

func isSVG(href string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(strings.SplitN(href, "?", 2)[0]), ".svg") {
		return true
	}
	head := bytes.TrimSpace(data[:min(len(data), 256)])
	return bytes.HasPrefix(head, []byte("<svg")) || bytes.HasPrefix(head, []byte("<?xml"))
}
