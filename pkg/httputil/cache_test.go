package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		key  string
		data []byte
	}{
		{"png", "https://example.net/router.png", []byte{0x89, 'P', 'N', 'G'}},
		{"text", "key", []byte("hello")},
		{"empty", "empty", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(tt.key, tt.data); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := c.Get(tt.key)
			if err != nil || !ok {
				t.Fatalf("Get = %v, %v", ok, err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("Get = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestCacheMiss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	got, ok, err := c.Get("missing")
	if err != nil || ok || got != nil {
		t.Errorf("Get = %q, %v, %v; want miss", got, ok, err)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Minute)
	if err := c.Set("key", []byte("stale")); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(c.path("key"), old, old); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get("key")
	if !errors.Is(err, ErrExpired) || ok {
		t.Fatalf("Get = %v, %v; want ErrExpired", ok, err)
	}
	if string(got) != "stale" {
		t.Errorf("stale data = %q", got)
	}
}

func TestCacheNoTTL(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	_ = c.Set("key", []byte("v"))
	old := time.Now().Add(-365 * 24 * time.Hour)
	_ = os.Chtimes(c.path("key"), old, old)

	if _, ok, err := c.Get("key"); !ok || err != nil {
		t.Errorf("Get = %v, %v; want hit", ok, err)
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	_ = c.Set("key", []byte("v"))
	if err := c.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get("key"); ok {
		t.Error("entry survived Delete")
	}
	if err := c.Delete("key"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestCacheNamespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	icons := c.Namespace("icons:")
	other := c.Namespace("other:")

	_ = icons.Set("a", []byte("icon"))
	_ = other.Set("a", []byte("other"))

	got, _, _ := icons.Get("a")
	if string(got) != "icon" {
		t.Errorf("icons a = %q", got)
	}
	if _, ok, _ := c.Get("a"); ok {
		t.Error("namespaced key visible without prefix")
	}
	if got, ok, _ := c.Namespace("icons:").Namespace("").Get("a"); !ok || string(got) != "icon" {
		t.Errorf("chained namespace = %q, %v", got, ok)
	}
	if icons.Dir() != c.Dir() || icons.TTL() != c.TTL() {
		t.Error("namespace changed dir or ttl")
	}
	if icons.path("a") == other.path("a") {
		t.Error("namespaces share a file")
	}
}

func TestDefaultDir(t *testing.T) {
	dir, err := DefaultDir()
	if err != nil {
		t.Skip("no cache or home directory")
	}
	if filepath.Base(dir) != "http" || filepath.Base(filepath.Dir(dir)) != "topoview" {
		t.Errorf("DefaultDir = %s", dir)
	}
}

func TestCacheClear(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set("a", []byte("1"))
	_ = c.Namespace("icons:").Set("b", []byte("2"))

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if _, hit, _ := c.Get("a"); hit {
		t.Error("entry survived Clear")
	}
}
