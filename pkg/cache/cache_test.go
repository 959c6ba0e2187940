package cache

import (
	"context"
	stderrors "errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/topoview/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "artifact:svg:abc"); hit {
		t.Fatal("hit on empty cache")
	}
	if err := c.Set(ctx, "artifact:svg:abc", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "artifact:svg:abc")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "artifact:svg:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:svg:abc"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "artifact:svg:abc"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "gone", []byte("x"), time.Nanosecond)
	_ = c.Set(ctx, "forever", []byte("y"), 0)
	time.Sleep(time.Millisecond)

	if _, hit, _ := c.Get(ctx, "gone"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("gone")); !os.IsNotExist(err) {
		t.Error("expired entry left on disk")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, hit, err := c.Get(ctx, "k")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("nodes: []"))
	if h1 != Hash([]byte("nodes: []")) {
		t.Error("Hash is not deterministic")
	}
	if h1 == Hash([]byte("nodes: [a]")) {
		t.Error("different inputs share a hash")
	}
	if len(h1) != 64 {
		t.Errorf("len = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := ArtifactKeyOpts{Format: "svg", Engine: "neato", FontSize: 12, MetaKeys: []string{"loopback"}}
	variants := []ArtifactKeyOpts{
		{Format: "png", Engine: "neato", FontSize: 12, MetaKeys: []string{"loopback"}},
		{Format: "svg", Engine: "grid", FontSize: 12, MetaKeys: []string{"loopback"}},
		{Format: "svg", Engine: "neato", FontSize: 14, MetaKeys: []string{"loopback"}},
		{Format: "svg", Engine: "neato", FontSize: 12, MetaKeys: []string{"site"}},
		{Format: "svg", Engine: "neato", FontSize: 12, MetaKeys: []string{"loopback"}, Strict: true},
	}
	key := k.ArtifactKey("t1", base)
	if !strings.HasPrefix(key, "artifact:svg:") {
		t.Errorf("ArtifactKey = %s", key)
	}
	if key != k.ArtifactKey("t1", base) {
		t.Error("ArtifactKey is not deterministic")
	}
	if key == k.ArtifactKey("t2", base) {
		t.Error("topology hash ignored")
	}
	for i, v := range variants {
		if k.ArtifactKey("t1", v) == key {
			t.Errorf("variant %d collides with base", i)
		}
	}

	lk := k.LayoutKey("t1", LayoutKeyOpts{Engine: "neato"})
	if !strings.HasPrefix(lk, "layout:") || lk == k.LayoutKey("t1", LayoutKeyOpts{Engine: "grid"}) {
		t.Errorf("LayoutKey = %s", lk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "lab-a:")
	opts := ArtifactKeyOpts{Format: "json"}

	if got, want := scoped.ArtifactKey("t", opts), "lab-a:"+inner.ArtifactKey("t", opts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").LayoutKey("t", LayoutKeyOpts{}); !strings.HasPrefix(got, "p:layout:") {
		t.Errorf("nil inner LayoutKey = %s", got)
	}
}

func TestBackendError(t *testing.T) {
	if backendError(nil, "get", "k") != nil {
		t.Error("nil error wrapped")
	}
	err := backendError(stderrors.New("connection refused"), "get", "k")
	if !IsBackendError(err) {
		t.Errorf("IsBackendError(%v) = false", err)
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("code = %s", errors.GetCode(err))
	}
	if IsBackendError(stderrors.New("plain")) {
		t.Error("plain error classified as backend error")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("TOPOVIEW_REDIS_URL")
	if url == "" {
		t.Skip("TOPOVIEW_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "topoview-test:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "mysql://nope", "")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
