package config

import "time"

const (
	defaultServer        = "http://www.phpmyadmin.net"
	defaultBaseURL       = "/home_page/"
	defaultExtension     = "php"
	defaultOutput        = "./output"
	defaultProjectID     = 23067
	defaultReleasesFeed  = "https://sourceforge.net/export/rss2_projfiles.php?group_id=%d&rss_limit=100"
	defaultNewsFeed      = "https://sourceforge.net/export/rss2_projnews.php?group_id=%d&rss_fulltext=1&limit=10"
	defaultSummaryFeed   = "https://sourceforge.net/export/rss2_projsummary.php?group_id=%d"
	defaultDonationsFeed = "https://sourceforge.net/export/rss2_projdonors.php?group_id=%d&limit=20"
	defaultSnapshotBase  = "http://dl.cihar.com/phpMyAdmin/trunk/"
	defaultCacheTTL      = 6 * time.Hour
)
