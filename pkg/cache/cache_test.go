package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exerciseBackend runs the behaviour every persistent backend shares.
func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "feed:releases"); err != nil || hit {
		t.Fatalf("Get on empty cache = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "feed:releases", []byte("<rss/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "feed:releases")
	if err != nil || !hit || string(data) != "<rss/>" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "feed:releases", []byte("<rss>2</rss>"), 0); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if data, _, _ = c.Get(ctx, "feed:releases"); string(data) != "<rss>2</rss>" {
		t.Errorf("after overwrite Get = %q", data)
	}

	if err := c.Set(ctx, "feed:news", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "feed:news"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Delete(ctx, "feed:releases"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "feed:releases"); hit {
		t.Error("deleted entry should be a miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	n, err := c.(Clearer).Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n < 2 {
		t.Errorf("Clear removed %d entries, want at least 2", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get = %v, %v; want clean miss", hit, err)
	}
}

func TestFileCache_ClearKeepsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	lock := filepath.Join(dir, "sitegen.lock")
	if err := os.WriteFile(lock, nil, 0644); err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if n, err := c.Clear(ctx); err != nil || n != 1 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if _, err := os.Stat(lock); err != nil {
		t.Errorf("lock file removed: %v", err)
	}
}

func TestNewFileCache_EmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestSQLiteCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.db")
	c, err := NewSQLiteCache(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteCache error: %v", err)
	}
	defer c.Close()
	if c.Path() != path {
		t.Errorf("Path() = %q", c.Path())
	}
	exerciseBackend(t, c)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		check   func(Cache) bool
	}{
		{"", func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
		{BackendFile, func(c Cache) bool { _, ok := c.(*FileCache); return ok }},
		{BackendNone, func(c Cache) bool { _, ok := c.(*NullCache); return ok }},
		{BackendSQLite, func(c Cache) bool { _, ok := c.(*SQLiteCache); return ok }},
	}
	for _, tt := range tests {
		c, err := Open(ctx, Options{Backend: tt.backend, Dir: dir})
		if err != nil {
			t.Fatalf("Open(%q) error: %v", tt.backend, err)
		}
		if !tt.check(c) {
			t.Errorf("Open(%q) = %T", tt.backend, c)
		}
		c.Close()
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRemoteBackends_BadURL(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "localhost:6379"); err == nil || !strings.Contains(err.Error(), "redis url") {
		t.Errorf("NewRedisCache error = %v", err)
	}
	if _, err := NewMongoCache(ctx, "not-a-uri"); err == nil {
		t.Error("NewMongoCache should reject a malformed uri")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.FeedKey("releases"); got != "feed:releases" {
		t.Errorf("FeedKey = %q", got)
	}
	if got := k.CatalogKey("log", "phpmyadmin/phpmyadmin", "lang/german-utf-8.inc.php"); got != "catalog:log:phpmyadmin/phpmyadmin:lang/german-utf-8.inc.php" {
		t.Errorf("CatalogKey = %q", got)
	}
	t1 := k.TextKey("https://example.net/md5sums")
	if t1 == k.TextKey("https://example.net/files") || !strings.HasPrefix(t1, "text:") {
		t.Errorf("TextKey = %q", t1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "pma:")
	if got := scoped.FeedKey("news"); got != "pma:feed:news" {
		t.Errorf("FeedKey = %q", got)
	}
	if got := scoped.CatalogKey("ls", "o/r", "lang"); got != "pma:catalog:ls:o/r:lang" {
		t.Errorf("CatalogKey = %q", got)
	}
	if got := NewScopedKeyer(nil, "p:").TextKey("u"); !strings.HasPrefix(got, "p:text:") {
		t.Errorf("nil inner TextKey = %q", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	defer func() { retryDelay = time.Second }()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return ErrNotFound })
	if err != ErrNotFound || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
