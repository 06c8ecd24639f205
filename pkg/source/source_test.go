package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/sitegen/pkg/cache"
)

const releasesRSS = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0"><channel>
<title>phpMyAdmin file releases</title>
<link>https://sourceforge.net/projects/phpmyadmin</link>
<item>
  <title>phpMyAdmin 3.1.0 released</title>
  <link>https://sourceforge.net/project/shownotes.php?release_id=1</link>
  <description>Includes files: phpMyAdmin-3.1.0-all-languages.zip (4212345 bytes, 120 downloads to date)</description>
  <pubDate>Sat, 29 Nov 2008 12:00:00 +0000</pubDate>
</item>
</channel></rss>`

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, time.Hour, nil)
	client.http = server.Client()
	return client, server
}

func TestFeedCache_Load(t *testing.T) {
	var hits atomic.Int32
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(releasesRSS))
	}))
	feeds := NewFeedCache(client, nil)
	ctx := context.Background()

	doc, err := feeds.Load(ctx, "releases", server.URL+"/rss")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Title != "phpMyAdmin 3.1.0 released" {
		t.Fatalf("doc = %+v", doc)
	}

	again, err := feeds.Load(ctx, "releases", server.URL+"/rss")
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (second load cached)", hits.Load())
	}
	if again.Entries[0].Updated != doc.Entries[0].Updated {
		t.Errorf("cached entry differs: %+v", again.Entries[0])
	}

	refreshed := NewFeedCache(client.WithRefresh(true), nil)
	if _, err := refreshed.Load(ctx, "releases", server.URL+"/rss"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should bypass the cache, hits = %d", hits.Load())
	}
}

func TestFeedCache_LoadErrors(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.Write([]byte("<rss><channel><item>"))
		}
	}))
	feeds := NewFeedCache(client, nil)
	ctx := context.Background()

	if _, err := feeds.Load(ctx, "a", server.URL+"/missing"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("404: err = %v, want ErrNotFound", err)
	}
	_, err := feeds.Load(ctx, "b", server.URL+"/forbidden")
	if !errors.Is(err, cache.ErrNetwork) || cache.IsRetryable(err) {
		t.Errorf("403: err = %v, want non-retryable ErrNetwork", err)
	}
	if _, err := feeds.Load(ctx, "c", server.URL+"/broken"); err == nil {
		t.Error("truncated XML should fail")
	}
}

func TestFeedCache_Text(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "abc  phpMyAdmin-trunk.zip\n")
	}))
	text, err := NewFeedCache(client, nil).Text(context.Background(), server.URL+"/md5sums")
	if err != nil || text != "abc  phpMyAdmin-trunk.zip\n" {
		t.Errorf("Text() = %q, %v", text, err)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   error
		retryable bool
	}{
		{200, nil, false},
		{404, cache.ErrNotFound, false},
		{500, cache.ErrNetwork, true},
		{503, cache.ErrNetwork, true},
		{401, cache.ErrNetwork, false},
	}
	for _, tt := range tests {
		err := checkStatus(tt.code, "http://x")
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("checkStatus(%d) = %v", tt.code, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) || cache.IsRetryable(err) != tt.retryable {
			t.Errorf("checkStatus(%d) = %v", tt.code, err)
		}
	}
}

func githubHandler(t *testing.T, calls *atomic.Int32) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/phpmyadmin/phpmyadmin/contents/lang", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("ref") != "QA_3_1" {
			t.Errorf("ref = %q", r.URL.Query().Get("ref"))
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing auth header")
		}
		fmt.Fprint(w, `[
			{"name": "english-utf-8.inc.php", "type": "file"},
			{"name": "german-utf-8.inc.php", "type": "file"},
			{"name": "old", "type": "dir"}
		]`)
	})
	mux.HandleFunc("/repos/phpmyadmin/phpmyadmin/commits", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("path") != "lang/german-utf-8.inc.php" {
			t.Errorf("path = %q", r.URL.Query().Get("path"))
		}
		fmt.Fprint(w, `[
			{"sha": "b2", "commit": {"message": "German translation update", "author": {"name": "Jane", "date": "2008-11-20T10:00:00Z"}}},
			{"sha": "a1", "commit": {"message": "typo", "author": {"name": "Joe", "date": "2008-10-01T09:00:00+02:00"}}}
		]`)
	})
	mux.HandleFunc("/raw/phpmyadmin/phpmyadmin/QA_3_1/lang/german-utf-8.inc.php", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, "<?php\n$strA = 'a';\n")
	})
	return mux
}

func TestGitHubCatalog(t *testing.T) {
	var calls atomic.Int32
	client, server := testClient(t, githubHandler(t, &calls))
	cat := NewGitHubCatalog(client, nil, GitHubOptions{
		Owner:  "phpmyadmin",
		Repo:   "phpmyadmin",
		Ref:    "QA_3_1",
		Dir:    "/lang/",
		Token:  "secret",
		APIURL: server.URL,
		RawURL: server.URL + "/raw",
	})
	ctx := context.Background()

	names, err := cat.Ls(ctx)
	if err != nil {
		t.Fatalf("Ls() error: %v", err)
	}
	if strings.Join(names, ",") != "english-utf-8.inc.php,german-utf-8.inc.php" {
		t.Errorf("Ls() = %v", names)
	}

	text, err := cat.Cat(ctx, "german-utf-8.inc.php")
	if err != nil || !strings.Contains(text, "$strA") {
		t.Errorf("Cat() = %q, %v", text, err)
	}

	commits, err := cat.Log(ctx, "german-utf-8.inc.php")
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	if len(commits) != 2 || commits[0].SHA != "b2" || commits[0].Author != "Jane" {
		t.Fatalf("Log() = %+v", commits)
	}
	if !commits[1].Date.Equal(time.Date(2008, 10, 1, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("commit date = %v", commits[1].Date)
	}

	before := calls.Load()
	_, _ = cat.Ls(ctx)
	_, _ = cat.Log(ctx, "german-utf-8.inc.php")
	if calls.Load() != before {
		t.Error("repeated catalog reads should be served from the cache")
	}

	if _, err := cat.Cat(ctx, "klingon-utf-8.inc.php"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestMemoryCatalog(t *testing.T) {
	m := &MemoryCatalog{
		Files: map[string]string{"b-utf-8.inc.php": "b", "a-utf-8.inc.php": "a"},
		Commits: map[string][]Commit{
			"a-utf-8.inc.php": {{SHA: "1", Message: "init"}},
		},
		Extra: map[string]string{"translators.html": "<table></table>"},
	}
	ctx := context.Background()

	names, _ := m.Ls(ctx)
	if strings.Join(names, ",") != "a-utf-8.inc.php,b-utf-8.inc.php" {
		t.Errorf("Ls() = %v", names)
	}
	if text, err := m.Cat(ctx, "b-utf-8.inc.php"); err != nil || text != "b" {
		t.Errorf("Cat() = %q, %v", text, err)
	}
	if log, err := m.Log(ctx, "b-utf-8.inc.php"); err != nil || len(log) != 0 {
		t.Errorf("Log() without history = %v, %v", log, err)
	}
	if _, err := m.Cat(ctx, "c"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Cat(missing) = %v", err)
	}
	if text, err := m.File(ctx, "translators.html"); err != nil || text != "<table></table>" {
		t.Errorf("File() = %q, %v", text, err)
	}
	if _, err := m.File(ctx, "a-utf-8.inc.php"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("File() must not see catalog files: %v", err)
	}
}
