package records

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/sitegen/pkg/errors"
	"github.com/matzehuels/sitegen/pkg/feed"
	"github.com/matzehuels/sitegen/pkg/registry"
)

var (
	commentsRE = regexp.MustCompile(`(?s)^(.*)\(<a href="([^"]*)">([0-9]*) comments</a>\)$`)
	anchorRE   = regexp.MustCompile(`[^a-z0-9A-Z.-]`)

	summaryDevsRE      = regexp.MustCompile(`^Developers on project: ([0-9]*)`)
	summaryActivityRE  = regexp.MustCompile(`^Activity percentile \(last week\): ([0-9.]*%)`)
	summaryDownloadsRE = regexp.MustCompile(`^Downloadable files: ([0-9]*) total downloads to date`)
	summaryListsRE     = regexp.MustCompile(`^Mailing lists \(public\): ([0-9]*)`)
	summaryForumsRE    = regexp.MustCompile(`^Discussion forums \(public\): ([0-9]*), containing ([0-9]*) messages`)
	summaryTrackerRE   = regexp.MustCompile(`^Tracker: (.*) \(([0-9]*) open/([0-9]*) total\)`)
)

const trackerDescriptionPrefix = "Tracker description: "

// Anchor converts text into something usable as an HTML id.
func Anchor(text string) string {
	return anchorRE.ReplaceAllString(text, "_")
}

// ParseNews converts the news feed. The trailing comments link is split off
// the text; items without one keep their whole summary as text.
func (p *Parser) ParseNews(doc *feed.Document) ([]NewsItem, error) {
	p.logger.Debug("processing news feed", "entries", len(doc.Entries))
	out := make([]NewsItem, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		if err := entry.Require(feed.FieldTitle, feed.FieldUpdated); err != nil {
			return nil, err
		}
		date, err := entry.Time()
		if err != nil {
			return nil, err
		}
		item := NewsItem{
			Title:  entry.Title,
			Anchor: Anchor(entry.Title),
			Link:   entry.Link,
			Date:   date,
			Text:   entry.Summary,
		}
		if m := commentsRE.FindStringSubmatch(entry.Summary); m != nil {
			item.Text = m[1]
			item.CommentsLink = m[2]
			item.CommentsNumber, _ = strconv.Atoi(m[3])
		} else {
			p.logger.Warn("news item without comments link", "title", entry.Title)
		}
		out = append(out, item)
	}
	return out, nil
}

// ParseDonations converts the donations feed.
func (p *Parser) ParseDonations(doc *feed.Document) ([]Donation, error) {
	p.logger.Debug("processing donations feed", "entries", len(doc.Entries))
	out := make([]Donation, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		if err := entry.Require(feed.FieldTitle, feed.FieldUpdated); err != nil {
			return nil, err
		}
		date, err := entry.Time()
		if err != nil {
			return nil, err
		}
		out = append(out, Donation{
			Title: entry.Title,
			Link:  entry.Link,
			Date:  date,
			Text:  entry.Summary,
		})
	}
	return out, nil
}

// ParseSummary reads the project summary feed. Entries are recognised by
// their title prefix; unknown entries are ignored.
func (p *Parser) ParseSummary(doc *feed.Document) (*ProjectSummary, error) {
	p.logger.Debug("processing summary feed", "entries", len(doc.Entries))
	s := &ProjectSummary{Links: map[string]string{}}

	match := func(re *regexp.Regexp, entry feed.Entry) ([]string, error) {
		m := re.FindStringSubmatch(entry.Title)
		if m == nil {
			return nil, errors.New(errors.ErrCodeParse, "summary entry %q: unexpected format", entry.Title)
		}
		return m, nil
	}

	for _, entry := range doc.Entries {
		var (
			m   []string
			err error
		)
		switch title := entry.Title; {
		case strings.HasPrefix(title, "Developers on project:"):
			if m, err = match(summaryDevsRE, entry); err == nil {
				s.Developers = m[1]
				s.Links["developers"] = entry.Link
			}
		case strings.HasPrefix(title, "Activity percentile"):
			if m, err = match(summaryActivityRE, entry); err == nil {
				s.Activity = m[1]
				s.Links["activity"] = entry.Link
			}
		case strings.HasPrefix(title, "Downloadable files:"):
			if m, err = match(summaryDownloadsRE, entry); err == nil {
				s.Downloads = m[1]
				s.Links["downloads"] = entry.Link
			}
		case strings.HasPrefix(title, "Mailing lists"):
			if m, err = match(summaryListsRE, entry); err == nil {
				s.MailingLists = m[1]
				s.Links["mailinglists"] = entry.Link
			}
		case strings.HasPrefix(title, "Discussion forums"):
			if m, err = match(summaryForumsRE, entry); err == nil {
				s.Forums = m[1]
				s.ForumPosts = m[2]
				s.Links["forums"] = entry.Link
			}
		case strings.HasPrefix(title, "Tracker:"):
			if m, err = match(summaryTrackerRE, entry); err == nil {
				open, _ := strconv.Atoi(m[2])
				total, _ := strconv.Atoi(m[3])
				s.Trackers = append(s.Trackers, Tracker{
					Name:        m[1],
					Open:        open,
					Total:       total,
					Description: strings.TrimPrefix(entry.Summary, trackerDescriptionPrefix),
					Link:        entry.Link,
				})
			}
		}
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(s.Trackers, func(a, b Tracker) int { return cmp.Compare(a.Name, b.Name) })
	return s, nil
}

// ParseSnapshots combines a checksum list and a "<name> <size>" file list
// into snapshot downloads served from downloadBase.
func (p *Parser) ParseSnapshots(checksums, sizes, downloadBase string) ([]Snapshot, error) {
	sums, err := registry.ParseChecksums(checksums)
	if err != nil {
		return nil, err
	}

	var out []Snapshot
	for i, line := range strings.Split(sizes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeParse, "file list line %d: %q", i+1, line)
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "file list line %d", i+1)
		}
		sum, ok := sums[fields[0]]
		if !ok {
			p.logger.Warn("no checksum for snapshot", "file", fields[0])
			sum = registry.ChecksumNA
		}
		out = append(out, Snapshot{
			Name:      fields[0],
			SizeBytes: size,
			HumanSize: humanize.IBytes(uint64(size)),
			URL:       strings.TrimSuffix(downloadBase, "/") + "/" + fields[0],
			Checksum:  sum,
		})
	}
	return out, nil
}
