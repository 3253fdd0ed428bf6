package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

var (
	errConn    = errors.New("connection reset")
	errBadData = errors.New("bad data")
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	svg := k.RenderKey("hash123", RenderKeyOpts{View: "network", Format: "svg"})
	png := k.RenderKey("hash123", RenderKeyOpts{View: "network", Format: "png"})
	if svg == png {
		t.Error("Different formats should produce different keys")
	}

	beams := k.RenderKey("hash123", RenderKeyOpts{View: "beams", Format: "svg"})
	if svg == beams {
		t.Error("Different views should produce different keys")
	}

	routed := k.RenderKey("hash123", RenderKeyOpts{View: "network", Format: "svg", Highlight: "(0,0)->(2,2)"})
	if svg == routed {
		t.Error("Highlighted routes should produce different keys")
	}

	if again := k.RenderKey("hash123", RenderKeyOpts{View: "network", Format: "svg"}); again != svg {
		t.Error("RenderKey should be deterministic")
	}
	if !strings.HasPrefix(svg, "render:network:svg:") || len(svg) != len("render:network:svg:")+64 {
		t.Errorf("RenderKey unexpected: %s", svg)
	}
}

func TestParseRenderKey(t *testing.T) {
	k := NewDefaultKeyer()
	plain := k.RenderKey("h", RenderKeyOpts{View: "beams", Format: "png"})
	scoped := NewScopedKeyer(k, "user:7:").RenderKey("h", RenderKeyOpts{View: "network", Format: "svg", Highlight: "cycle (1,1)"})

	tests := []struct {
		key          string
		ok           bool
		view, format string
	}{
		{plain, true, "beams", "png"},
		{scoped, true, "network", "svg"},
		{"test:key", false, "", ""},
		{"render:network:svg:short", false, "", ""},
		{"render:network:svg", false, "", ""},
	}
	for _, tt := range tests {
		info, ok := ParseRenderKey(tt.key)
		if ok != tt.ok || info.View != tt.view || info.Format != tt.format {
			t.Errorf("ParseRenderKey(%q) = %+v, %v; want %s/%s, %v", tt.key, info, ok, tt.view, tt.format, tt.ok)
		}
	}

	odd := k.RenderKey("h", RenderKeyOpts{View: "a:b"})
	if info, ok := ParseRenderKey(odd); !ok || info.View != "a_b" || info.Format != "_" {
		t.Errorf("ParseRenderKey(%q) = %+v, %v", odd, info, ok)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	opts := RenderKeyOpts{View: "network", Format: "svg"}
	if got, want := scoped.RenderKey("h", opts), "user:123:"+inner.RenderKey("h", opts); got != want {
		t.Errorf("ScopedKeyer RenderKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RenderKey("h", RenderKeyOpts{})
	if !strings.HasPrefix(key, "prefix:render:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("svg bytes"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "svg bytes" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "cache")
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), time.Hour)
	}

	clearer, ok := c.(Clearer)
	if !ok {
		t.Fatal("FileCache should implement Clearer")
	}
	if err := clearer.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%q) after Clear should miss", k)
		}
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should exist after Clear: %v", err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)
	k := NewDefaultKeyer()

	network := k.RenderKey("h", RenderKeyOpts{View: "network", Format: "svg"})
	beams := k.RenderKey("h", RenderKeyOpts{View: "beams", Format: "png"})
	for _, key := range []string{network, beams, "loose"} {
		if err := c.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}
	for _, sub := range []string{"network/svg", "beams/png", otherDir} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(sub))); err != nil {
			t.Errorf("expected directory %s: %v", sub, err)
		}
	}

	usage, err := fc.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	var got []string
	for _, u := range usage {
		got = append(got, u.View+"/"+u.Format)
		if u.Entries != 1 || u.Bytes == 0 {
			t.Errorf("usage %s/%s = %d entries, %d bytes", u.View, u.Format, u.Entries, u.Bytes)
		}
	}
	if want := []string{otherDir + "/-", "beams/png", "network/svg"}; !slices.Equal(got, want) {
		t.Errorf("Usage groups = %v, want %v", got, want)
	}

	if err := fc.ClearView(ctx, "network"); err != nil {
		t.Fatalf("ClearView: %v", err)
	}
	if _, hit, _ := c.Get(ctx, network); hit {
		t.Error("network entry should be gone")
	}
	if _, hit, _ := c.Get(ctx, beams); !hit {
		t.Error("beams entry should survive")
	}
}

func TestFileCacheScopedKeysDoNotCollide(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	opts := RenderKeyOpts{View: "network", Format: "svg"}
	a := NewScopedKeyer(nil, "a:").RenderKey("h", opts)
	b := NewScopedKeyer(nil, "b:").RenderKey("h", opts)

	_ = c.Set(ctx, a, []byte("from a"), time.Hour)
	_ = c.Set(ctx, b, []byte("from b"), time.Hour)
	if data, _, _ := c.Get(ctx, a); string(data) != "from a" {
		t.Errorf("Get(a) = %q", data)
	}
	if data, _, _ := c.Get(ctx, b); string(data) != "from b" {
		t.Errorf("Get(b) = %q", data)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)
	k := NewDefaultKeyer()
	stale := k.RenderKey("old", RenderKeyOpts{View: "network", Format: "svg"})
	fresh := k.RenderKey("new", RenderKeyOpts{View: "network", Format: "svg"})

	_ = c.Set(ctx, stale, []byte("x"), time.Nanosecond)
	_ = c.Set(ctx, fresh, []byte("y"), time.Hour)
	time.Sleep(5 * time.Millisecond)

	usage, _ := fc.Usage(ctx)
	if len(usage) != 1 || usage[0].Entries != 2 || usage[0].Expired != 1 {
		t.Fatalf("Usage = %+v, want 2 entries with 1 expired", usage)
	}
	n, err := fc.Prune(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v; want 1, nil", n, err)
	}
	if _, hit, _ := c.Get(ctx, fresh); !hit {
		t.Error("fresh entry should survive Prune")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open(none) = %T, want *NullCache", c)
	}

	c, err = Open(ctx, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("Open(default) = %T, want *FileCache", c)
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) error = %v, want ErrUnknownBackend", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(errConn)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != errConn.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errBadData) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errBadData
	})
	if err != errBadData {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errConn)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errConn)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
