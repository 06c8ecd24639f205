package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer builds cache keys for fetched upstream data.
type Keyer interface {
	// FeedKey names a decoded feed document, e.g. "releases".
	FeedKey(name string) string
	// TextKey names a plain text download by URL.
	TextKey(url string) string
	// CatalogKey names one catalog operation ("ls", "cat", "log") on a path.
	CatalogKey(op, repo, path string) string
}

// DefaultKeyer produces readable "kind:name" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FeedKey implements Keyer.
func (DefaultKeyer) FeedKey(name string) string { return "feed:" + name }

// TextKey implements Keyer. URLs are hashed to keep keys short.
func (DefaultKeyer) TextKey(url string) string { return "text:" + Hash([]byte(url)) }

// CatalogKey implements Keyer.
func (DefaultKeyer) CatalogKey(op, repo, path string) string {
	return "catalog:" + op + ":" + repo + ":" + path
}
