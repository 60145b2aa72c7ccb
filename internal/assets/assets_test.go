package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func writeAsset(t *testing.T, root, bucket, name, data string) {
	t.Helper()
	path := filepath.Join(root, bucket, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalSources(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeAsset(t, low, "uvmaps", "shirt.png", "low")
	writeAsset(t, low, "uvmaps", "pants.png", "pants")
	writeAsset(t, high, "uvmaps", "shirt.png", "high")

	m := NewManager(nil, 0)
	if err := m.AddSource(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddSource(high); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	data, err := m.Load(ctx, "uvmaps", "shirt.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("expected last source to win, got %q", data)
	}

	data, err = m.Load(ctx, "uvmaps", "pants.png")
	if err != nil || string(data) != "pants" {
		t.Errorf("expected fallback to earlier source, got %q, %v", data, err)
	}

	u, err := m.ResolveAssetURL(ctx, "uvmaps", "shirt.png")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "file://") {
		t.Errorf("expected file URL, got %s", u)
	}

	_, err = m.Load(ctx, "uvmaps", "missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, err = m.ResolveAssetURL(ctx, "uvmaps", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty filename, got %v", err)
	}
}

func TestAddSourceErrors(t *testing.T) {
	m := NewManager(nil, 0)
	if err := m.AddSource(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.AddSource(file); err == nil {
		t.Error("expected error for a file source")
	}
}

func TestHTTPSource(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/public-asset" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("file") {
		case "shirt uv.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		case "error.png":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html>oops</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManager(nil, 0)
	if err := m.AddSource(srv.URL + "/"); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	u, err := m.ResolveAssetURL(ctx, "uvmaps", "shirt uv.png")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, srv.URL+"/public-asset?") {
		t.Errorf("unexpected URL %s", u)
	}

	for i := 0; i < 2; i++ {
		data, err := m.Fetch(ctx, u)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("expected png-bytes, got %q", data)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 request with caching, got %d", n)
	}
	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	if _, err := m.Load(ctx, "uvmaps", "error.png"); err == nil {
		t.Error("expected HTML response to be rejected")
	}
	if _, err := m.Load(ctx, "uvmaps", "missing.png"); err == nil {
		t.Error("expected 404 to fail")
	}
}

func TestFetchUnsupportedScheme(t *testing.T) {
	m := NewManager(nil, 0)
	if _, err := m.Fetch(context.Background(), "ftp://example.com/a.png"); err == nil {
		t.Error("expected error for ftp URL")
	}
}

func TestResolveCanceled(t *testing.T) {
	m := NewManager(nil, 0)
	if err := m.AddSource(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.ResolveAssetURL(ctx, "uvmaps", "a.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(10)
	c.Set("a", []byte("1234"))
	c.Set("b", []byte("1234"))
	c.Set("c", []byte("1234"))

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected newest entry to be cached")
	}
	if c.Size() != 8 || c.Len() != 2 {
		t.Errorf("expected 2 items / 8 bytes, got %d / %d", c.Len(), c.Size())
	}

	c.Set("b", []byte("12"))
	if c.Size() != 6 {
		t.Errorf("expected replacement to adjust size, got %d", c.Size())
	}

	c.Set("huge", make([]byte, 11))
	if _, ok := c.Get("huge"); ok {
		t.Error("expected oversized item to be skipped")
	}

	c.Clear()
	if c.Len() != 0 || c.Size() != 0 {
		t.Error("expected empty cache after Clear")
	}
	hits, misses := c.Stats()
	if hits != 0 || misses != 0 {
		t.Errorf("expected stats reset, got %d/%d", hits, misses)
	}
}
