// Package source fetches the upstream data the generator works on: syndication
// feeds, plain text lists and the translation catalog repository.
//
// Every fetch goes through a [cache.Cache] keyed by a [cache.Keyer], so a
// repeated run with unchanged upstream data does not touch the network.
// Transient failures (connection errors, 5xx responses) are retried with
// [cache.RetryWithBackoff]; a 404 fails immediately with [cache.ErrNotFound].
//
// The catalog side is described by the [Catalog] interface: list the files of
// the language directory, read one file, and read its commit history newest
// first. [GitHubCatalog] implements it against the GitHub REST API and
// [MemoryCatalog] serves fixtures.
package source
