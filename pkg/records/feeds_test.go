package records

import (
	"strings"
	"testing"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/feed"
)

func TestAnchor(t *testing.T) {
	if got := Anchor("phpMyAdmin 3.1.0 released!"); got != "phpMyAdmin_3.1.0_released_" {
		t.Errorf("Anchor() = %q", got)
	}
}

func TestParseNews(t *testing.T) {
	p, logs := testParser(t)
	doc := &feed.Document{Entries: []feed.Entry{
		{
			Title:   "phpMyAdmin 3.1.0 released",
			Link:    "https://sourceforge.net/forum/forum.php?forum_id=1",
			Summary: `Welcome to 3.1.0. (<a href="https://sourceforge.net/forum/forum.php?forum_id=1#c">4 comments</a>)`,
			Updated: pubDate,
		},
		{Title: "Plain", Summary: "No comments here", Updated: pubDate},
	}}

	news, err := p.ParseNews(doc)
	if err != nil {
		t.Fatalf("ParseNews() error: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("got %d items", len(news))
	}
	if news[0].Text != "Welcome to 3.1.0. " || news[0].CommentsNumber != 4 {
		t.Errorf("news[0] = %+v", news[0])
	}
	if news[0].CommentsLink != "https://sourceforge.net/forum/forum.php?forum_id=1#c" {
		t.Errorf("CommentsLink = %q", news[0].CommentsLink)
	}
	if news[0].Anchor != "phpMyAdmin_3.1.0_released" {
		t.Errorf("Anchor = %q", news[0].Anchor)
	}
	if news[1].Text != "No comments here" || news[1].CommentsLink != "" {
		t.Errorf("news[1] = %+v", news[1])
	}
	if !strings.Contains(logs.String(), "without comments link") {
		t.Errorf("expected warning, got %q", logs.String())
	}
}

func TestParseDonations(t *testing.T) {
	p, _ := testParser(t)
	out, err := p.ParseDonations(&feed.Document{Entries: []feed.Entry{
		{Title: "Jane Doe donated", Link: "x", Summary: "Keep up the work", Updated: pubDate},
	}})
	if err != nil {
		t.Fatalf("ParseDonations() error: %v", err)
	}
	if len(out) != 1 || out[0].Text != "Keep up the work" {
		t.Errorf("donations = %+v", out)
	}

	_, err = p.ParseDonations(&feed.Document{Entries: []feed.Entry{{Title: "undated"}}})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}

func TestParseSummary(t *testing.T) {
	p, _ := testParser(t)
	doc := &feed.Document{Entries: []feed.Entry{
		{Title: "Developers on project: 12", Link: "dev"},
		{Title: "Activity percentile (last week): 99.5%", Link: "act"},
		{Title: "Downloadable files: 1234567 total downloads to date", Link: "dl"},
		{Title: "Mailing lists (public): 5", Link: "ml"},
		{Title: "Discussion forums (public): 3, containing 4567 messages", Link: "fo"},
		{Title: "Tracker: Patches (10 open/200 total)", Link: "tp", Summary: "Tracker description: Submitted patches"},
		{Title: "Tracker: Bugs (50 open/1000 total)", Link: "tb", Summary: "Tracker description: Bug reports"},
		{Title: "Something else", Link: "ignored"},
	}}

	s, err := p.ParseSummary(doc)
	if err != nil {
		t.Fatalf("ParseSummary() error: %v", err)
	}
	if s.Developers != "12" || s.Activity != "99.5%" || s.Downloads != "1234567" {
		t.Errorf("summary = %+v", s)
	}
	if s.MailingLists != "5" || s.Forums != "3" || s.ForumPosts != "4567" {
		t.Errorf("summary = %+v", s)
	}
	if s.Links["forums"] != "fo" || len(s.Links) != 5 {
		t.Errorf("Links = %v", s.Links)
	}
	if len(s.Trackers) != 2 || s.Trackers[0].Name != "Bugs" || s.Trackers[1].Name != "Patches" {
		t.Fatalf("Trackers = %+v", s.Trackers)
	}
	if s.Trackers[0].Open != 50 || s.Trackers[0].Total != 1000 || s.Trackers[0].Description != "Bug reports" {
		t.Errorf("Trackers[0] = %+v", s.Trackers[0])
	}
}

func TestParseSummary_Malformed(t *testing.T) {
	p, _ := testParser(t)
	_, err := p.ParseSummary(&feed.Document{Entries: []feed.Entry{{Title: "Developers on project: many"}}})
	if err != nil {
		t.Fatalf("digits are optional in the developers counter: %v", err)
	}
	_, err = p.ParseSummary(&feed.Document{Entries: []feed.Entry{{Title: "Tracker: Bugs"}}})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}

func TestParseSnapshots(t *testing.T) {
	p, logs := testParser(t)
	sums := "aaaa  phpMyAdmin-trunk.zip\n"
	sizes := "phpMyAdmin-trunk.zip 2048\nphpMyAdmin-trunk.tar.bz2 1024\n\n"

	snaps, err := p.ParseSnapshots(sums, sizes, "http://dl.example.net/trunk/")
	if err != nil {
		t.Fatalf("ParseSnapshots() error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots", len(snaps))
	}
	if snaps[0].Checksum != "aaaa" || snaps[0].URL != "http://dl.example.net/trunk/phpMyAdmin-trunk.zip" {
		t.Errorf("snaps[0] = %+v", snaps[0])
	}
	if snaps[1].Checksum != "N/A" || snaps[1].HumanSize != "1.0 KiB" {
		t.Errorf("snaps[1] = %+v", snaps[1])
	}
	if !strings.Contains(logs.String(), "no checksum for snapshot") {
		t.Errorf("expected warning, got %q", logs.String())
	}

	if _, err := p.ParseSnapshots("", "only-a-name\n", "x"); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}
