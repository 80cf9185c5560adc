package collector

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/halfteen/horizons/app/config"
	"github.com/halfteen/horizons/app/database"
)

const feedFetchTimeout = 15 * time.Second

// FeedCollector pulls syndication feeds for every registered feed-kind
// source and converts entries to candidate records. Sources and followees
// are processed strictly sequentially.
type FeedCollector struct {
	registry   *config.Registry
	sources    database.SourceStore
	items      database.ItemStore
	parser     *gofeed.Parser
	httpClient *http.Client
	userAgent  string
}

func NewFeedCollector(registry *config.Registry, sources database.SourceStore,
	items database.ItemStore, userAgent string) *FeedCollector {
	return &FeedCollector{
		registry:   registry,
		sources:    sources,
		items:      items,
		parser:     gofeed.NewParser(),
		httpClient: &http.Client{Timeout: feedFetchTimeout},
		userAgent:  userAgent,
	}
}

// SyncFollowees registers the feed-kind sources of every followee.
// Registration is idempotent, so this is safe before every ingest run.
func (c *FeedCollector) SyncFollowees() error {
	for _, id := range c.registry.FolloweeIDs() {
		followee := c.registry.Followees[id]
		feedSources := lo.Filter(followee.Sources, func(s config.Source, _ int) bool {
			return s.Kind == config.KindFeed
		})
		if len(feedSources) == 0 {
			continue
		}
		specs := lo.Map(feedSources, func(s config.Source, _ int) database.SourceSpec {
			return database.SourceSpec{Name: s.Name, URL: s.URL, Kind: s.Kind}
		})
		if err := c.sources.UpsertSources(followee.ID, specs); err != nil {
			return fmt.Errorf("failed to sync sources for %s: %w", followee.ID, err)
		}
	}
	return nil
}

// FetchOne fetches all feed-kind sources of a single followee. Network
// and parse failures are logged and skip the offending source; they never
// abort the followee.
func (c *FeedCollector) FetchOne(ctx context.Context, followee config.Followee) []FeedRecord {
	var records []FeedRecord
	for _, source := range followee.Sources {
		if source.Kind != config.KindFeed {
			continue
		}

		log.WithFields(log.Fields{
			"followee": followee.ID,
			"url":      source.URL,
		}).Info("Fetching feed")

		data, err := c.fetch(ctx, source.URL)
		if err != nil {
			log.WithField("url", source.URL).Warnf("HTTP error: %v", err)
			continue
		}

		feed, err := c.parser.Parse(bytes.NewReader(data))
		if err != nil {
			log.WithField("url", source.URL).Warnf("Failed to parse feed: %v", err)
			continue
		}

		for _, entry := range feed.Items {
			records = append(records, FeedRecord{
				FolloweeID: followee.ID,
				SourceURL:  source.URL,
				Title:      cmp.Or(entry.Title, untitledPlaceholder),
				Link:       entry.Link,
				Published:  optional(entry.Published),
				Summary:    optional(entry.Description),
			})
		}
	}
	return records
}

// Ingest syncs sources, fetches every followee's feeds and stores the
// resulting records, returning the number of newly inserted items.
// Already-ingested records are counted as duplicates, not failures.
func (c *FeedCollector) Ingest(ctx context.Context) (int, error) {
	if err := c.SyncFollowees(); err != nil {
		return 0, err
	}

	inserted := 0
	for _, id := range c.registry.FolloweeIDs() {
		followee := c.registry.Followees[id]
		for _, record := range c.FetchOne(ctx, followee) {
			sourceID, err := c.sources.GetSourceID(record.FolloweeID, record.SourceURL)
			if errors.Is(err, database.ErrSourceNotFound) {
				log.Errorf("Source missing in database: %v", err)
				continue
			}
			if err != nil {
				return inserted, err
			}

			_, ok, err := c.items.InsertItem(database.NewItem{
				FolloweeID:  record.FolloweeID,
				SourceID:    sourceID,
				Title:       record.Title,
				URL:         record.Link,
				PublishedAt: record.Published,
				Content:     lo.FromPtr(record.Summary),
			})
			if err != nil {
				return inserted, err
			}
			if ok {
				inserted++
			}
		}
	}
	return inserted, nil
}

func (c *FeedCollector) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
