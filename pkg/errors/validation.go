package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCatalogName validates a file name returned by a remote catalog
// listing before it is used to build a request path.
//
// The rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateCatalogName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "catalog name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPath, "catalog name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "catalog name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPath, "catalog name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a repository path (such as the translations
// directory) for safety.
//
// Validation rules:
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
//
// An empty path denotes the repository root and is accepted.
func ValidatePath(path string) error {
	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

var repoSlugRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRepoSlug validates a GitHub owner or repository name.
func ValidateRepoSlug(s string) error {
	if !repoSlugRegex.MatchString(s) {
		return New(ErrCodeInvalidConfig, "invalid repository name: %q", s)
	}
	return nil
}
