package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/sitegen/pkg/cache"
)

// Commit is one entry of a file's history.
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Catalog gives access to the directory of translation catalogs.
type Catalog interface {
	// Ls lists the file names of the catalog directory.
	Ls(ctx context.Context) ([]string, error)
	// Cat returns the content of one file.
	Cat(ctx context.Context, name string) (string, error)
	// Log returns the history of one file, newest first.
	Log(ctx context.Context, name string) ([]Commit, error)
}

// Repository is a Catalog that can also read files outside the catalog
// directory, addressed by repository-relative path.
type Repository interface {
	Catalog
	File(ctx context.Context, path string) (string, error)
}

// MemoryCatalog is a Catalog over in-memory fixtures.
type MemoryCatalog struct {
	Files   map[string]string
	Commits map[string][]Commit
	Extra   map[string]string // repository files outside the catalog directory
}

// Ls returns the file names in lexical order.
func (m *MemoryCatalog) Ls(ctx context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(m.Files)), nil
}

// Cat returns a file or cache.ErrNotFound.
func (m *MemoryCatalog) Cat(ctx context.Context, name string) (string, error) {
	text, ok := m.Files[name]
	if !ok {
		return "", fmt.Errorf("%w: catalog file %s", cache.ErrNotFound, name)
	}
	return text, nil
}

// Log returns the recorded commits of name. Files without history have an
// empty log.
func (m *MemoryCatalog) Log(ctx context.Context, name string) ([]Commit, error) {
	if _, ok := m.Files[name]; !ok {
		return nil, fmt.Errorf("%w: catalog file %s", cache.ErrNotFound, name)
	}
	return m.Commits[name], nil
}

// File returns an Extra file or cache.ErrNotFound.
func (m *MemoryCatalog) File(ctx context.Context, path string) (string, error) {
	text, ok := m.Extra[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", cache.ErrNotFound, path)
	}
	return text, nil
}

var _ Repository = (*MemoryCatalog)(nil)
