package records

import "time"

// FileRecord is one downloadable file of a release.
type FileRecord struct {
	Name          string `json:"name"`
	DownloadURL   string `json:"url"`
	Extension     string `json:"ext"`
	IsFeatured    bool   `json:"featured"`
	SizeBytes     int64  `json:"size"`
	HumanSize     string `json:"humansize"`
	DownloadCount int64  `json:"dlcount"`
	Checksum      string `json:"md5"`
}

// ReleaseRecord is one product release. Version is the classification key and
// is never modified after parsing.
type ReleaseRecord struct {
	ProductType string       `json:"name"`
	Version     string       `json:"version"`
	Date        time.Time    `json:"date"`
	NotesLink   string       `json:"notes"`
	Info        string       `json:"info"`
	Featured    bool         `json:"featured"`
	Files       []FileRecord `json:"files"`
}

// FullName is "<product> <version>".
func (r ReleaseRecord) FullName() string {
	return r.ProductType + " " + r.Version
}

// ThemeRecord is one theme release.
type ThemeRecord struct {
	ShortName    string     `json:"shortname"`
	Version      string     `json:"version"`
	Date         time.Time  `json:"date"`
	DisplayName  string     `json:"name"`
	SupportLevel string     `json:"support"`
	CSSClass     string     `json:"classes"`
	Info         string     `json:"info"`
	ImagePath    string     `json:"imgname"`
	NotesLink    string     `json:"notes"`
	File         FileRecord `json:"file"`
}

// FullName is "<display name> <version>".
func (t ThemeRecord) FullName() string {
	return t.DisplayName + " " + t.Version
}

// NewsItem is one entry of the project news feed.
type NewsItem struct {
	Title          string    `json:"title"`
	Anchor         string    `json:"anchor"`
	Link           string    `json:"link"`
	Date           time.Time `json:"date"`
	Text           string    `json:"text"`
	CommentsLink   string    `json:"comments_link,omitempty"`
	CommentsNumber int       `json:"comments_number"`
}

// Donation is one entry of the donations feed.
type Donation struct {
	Title string    `json:"title"`
	Link  string    `json:"link"`
	Date  time.Time `json:"date"`
	Text  string    `json:"text"`
}

// Tracker is one issue tracker listed in the project summary.
type Tracker struct {
	Name        string `json:"name"`
	Open        int    `json:"open"`
	Total       int    `json:"total"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// ProjectSummary holds the counters of the project summary feed.
type ProjectSummary struct {
	Developers   string            `json:"developers,omitempty"`
	Activity     string            `json:"activity,omitempty"`
	Downloads    string            `json:"downloads,omitempty"`
	MailingLists string            `json:"mailinglists,omitempty"`
	Forums       string            `json:"forums,omitempty"`
	ForumPosts   string            `json:"forumposts,omitempty"`
	Links        map[string]string `json:"links"`
	Trackers     []Tracker         `json:"trackers"`
}

// Snapshot is one nightly development snapshot file.
type Snapshot struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
	HumanSize string `json:"humansize"`
	URL       string `json:"url"`
	Checksum  string `json:"md5"`
}
