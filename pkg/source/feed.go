package source

import (
	"context"

	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/feed"
)

// FeedCache loads syndication feeds, reusing decoded documents from the
// cache. Entries are stored decoded, so a cached feed skips XML parsing too.
type FeedCache struct {
	client *Client
	keyer  cache.Keyer
}

// NewFeedCache creates a feed loader. A nil keyer uses [cache.DefaultKeyer].
func NewFeedCache(client *Client, keyer cache.Keyer) *FeedCache {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &FeedCache{client: client, keyer: keyer}
}

// Load returns the feed named key, fetching url on a cache miss.
func (f *FeedCache) Load(ctx context.Context, key, url string) (*feed.Document, error) {
	var doc feed.Document
	err := f.client.Cached(ctx, f.keyer.FeedKey(key), &doc, func() error {
		data, err := f.client.GetBytes(ctx, url)
		if err != nil {
			return err
		}
		parsed, err := feed.ParseRSS(data)
		if err != nil {
			return err
		}
		doc = *parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Text fetches a plain text document such as a checksum list.
func (f *FeedCache) Text(ctx context.Context, url string) (string, error) {
	return f.client.Text(ctx, f.keyer.TextKey(url), url)
}
