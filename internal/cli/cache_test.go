package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sitegen/pkg/cache"
)

func TestCacheLocation(t *testing.T) {
	dir := filepath.Join("home", "user", ".cache", appName)
	tests := []struct {
		backend string
		url     string
		want    string
	}{
		{cache.BackendFile, "", dir},
		{cache.BackendNone, "", "(disabled)"},
		{cache.BackendSQLite, "", filepath.Join(dir, "cache.db")},
		{cache.BackendSQLite, "/tmp/x.db", "/tmp/x.db"},
		{cache.BackendRedis, "redis://localhost:6379/0", "redis://localhost:6379/0"},
		{cache.BackendMongo, "mongodb://localhost", "mongodb://localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			if got := cacheLocation(tt.backend, dir, tt.url); got != tt.want {
				t.Errorf("cacheLocation(%q) = %q, want %q", tt.backend, got, tt.want)
			}
		})
	}
}

func TestAcquireLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	lock, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquireLock() error: %v", err)
	}

	if _, err := acquireLock(dir); err == nil {
		t.Fatal("second acquireLock() should fail while the lock is held")
	} else if !strings.Contains(err.Error(), lockName) {
		t.Errorf("error %q should name the lock file", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}

	again, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquireLock() after unlock error: %v", err)
	}
	again.Unlock()
}
