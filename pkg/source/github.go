package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/sitegen/pkg/cache"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	defaultGitHubRaw = "https://raw.githubusercontent.com"
)

// GitHubOptions locates a catalog directory in a GitHub repository.
type GitHubOptions struct {
	Owner  string
	Repo   string
	Ref    string // branch, tag or commit; empty means the default branch
	Dir    string // catalog directory, e.g. "lang"
	Token  string // optional; raises the API rate limit
	APIURL string // defaults to https://api.github.com
	RawURL string // defaults to https://raw.githubusercontent.com
}

// GitHubCatalog reads catalogs through the GitHub contents and commits APIs.
type GitHubCatalog struct {
	client *Client
	keyer  cache.Keyer
	opts   GitHubOptions
}

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// NewGitHubCatalog creates a catalog reader. The client's cache and TTL are
// shared; GitHub headers are added on top of the client's own.
func NewGitHubCatalog(client *Client, keyer cache.Keyer, opts GitHubOptions) *GitHubCatalog {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if opts.APIURL == "" {
		opts.APIURL = defaultGitHubAPI
	}
	if opts.RawURL == "" {
		opts.RawURL = defaultGitHubRaw
	}
	if opts.Ref == "" {
		opts.Ref = "HEAD"
	}
	opts.Dir = strings.Trim(opts.Dir, "/")

	gh := *client
	gh.headers = map[string]string{"Accept": "application/vnd.github.v3+json"}
	for k, v := range client.headers {
		gh.headers[k] = v
	}
	if opts.Token != "" {
		gh.headers["Authorization"] = "Bearer " + opts.Token
	}
	return &GitHubCatalog{client: &gh, keyer: keyer, opts: opts}
}

func (g *GitHubCatalog) repo() string { return g.opts.Owner + "/" + g.opts.Repo }

// RawURL returns the download URL of a repository-relative path.
func (g *GitHubCatalog) RawURL(p string) string {
	return fmt.Sprintf("%s/%s/%s/%s", g.opts.RawURL, g.repo(), g.opts.Ref, strings.TrimPrefix(p, "/"))
}

// File fetches any repository-relative file, such as the translators page.
func (g *GitHubCatalog) File(ctx context.Context, p string) (string, error) {
	return g.client.Text(ctx, g.keyer.CatalogKey("cat", g.repo(), p), g.RawURL(p))
}

// Ls lists the regular files of the catalog directory in API order.
func (g *GitHubCatalog) Ls(ctx context.Context) ([]string, error) {
	var names []string
	err := g.client.Cached(ctx, g.keyer.CatalogKey("ls", g.repo(), g.opts.Dir), &names, func() error {
		u := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", g.opts.APIURL, g.repo(), g.opts.Dir, url.QueryEscape(g.opts.Ref))
		var entries []contentEntry
		if err := g.client.Get(ctx, u, &entries); err != nil {
			return err
		}
		names = names[:0]
		for _, e := range entries {
			if e.Type == "file" {
				names = append(names, e.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", g.repo(), g.opts.Dir, err)
	}
	return names, nil
}

// Cat returns the content of one catalog file.
func (g *GitHubCatalog) Cat(ctx context.Context, name string) (string, error) {
	return g.File(ctx, path.Join(g.opts.Dir, name))
}

// Log returns the commits touching one catalog file, newest first.
func (g *GitHubCatalog) Log(ctx context.Context, name string) ([]Commit, error) {
	p := path.Join(g.opts.Dir, name)
	var commits []Commit
	err := g.client.Cached(ctx, g.keyer.CatalogKey("log", g.repo(), p), &commits, func() error {
		u := fmt.Sprintf("%s/repos/%s/commits?path=%s&sha=%s&per_page=100",
			g.opts.APIURL, g.repo(), url.QueryEscape(p), url.QueryEscape(g.opts.Ref))
		var data []commitResponse
		if err := g.client.Get(ctx, u, &data); err != nil {
			return err
		}
		commits = make([]Commit, 0, len(data))
		for _, c := range data {
			commits = append(commits, Commit{
				SHA:     c.SHA,
				Message: c.Commit.Message,
				Author:  c.Commit.Author.Name,
				Date:    c.Commit.Author.Date.UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", p, err)
	}
	return commits, nil
}

var _ Repository = (*GitHubCatalog)(nil)
