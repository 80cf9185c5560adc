package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/halfteen/horizons/app/config"
	"github.com/halfteen/horizons/app/database"
)

const pageFetchTimeout = 20 * time.Second

// PageCollector fetches a single web page and extracts one content
// record via readability. There is no intermediate state and no retry:
// fetch-and-extract, then store.
type PageCollector struct {
	registry   *config.Registry
	sources    database.SourceStore
	items      database.ItemStore
	httpClient *http.Client
	userAgent  string
}

func NewPageCollector(registry *config.Registry, sources database.SourceStore,
	items database.ItemStore, userAgent string) *PageCollector {
	return &PageCollector{
		registry:   registry,
		sources:    sources,
		items:      items,
		httpClient: &http.Client{Timeout: pageFetchTimeout},
		userAgent:  userAgent,
	}
}

// SyncFollowees registers page-kind sources for every followee, same
// idempotent pattern as the feed collector.
func (c *PageCollector) SyncFollowees() error {
	for _, id := range c.registry.FolloweeIDs() {
		followee := c.registry.Followees[id]
		pageSources := lo.Filter(followee.Sources, func(s config.Source, _ int) bool {
			return s.Kind == config.KindPage || s.Kind == config.KindArticle
		})
		if len(pageSources) == 0 {
			continue
		}
		specs := lo.Map(pageSources, func(s config.Source, _ int) database.SourceSpec {
			return database.SourceSpec{Name: s.Name, URL: s.URL, Kind: s.Kind}
		})
		if err := c.sources.UpsertSources(followee.ID, specs); err != nil {
			return fmt.Errorf("failed to sync sources for %s: %w", followee.ID, err)
		}
	}
	return nil
}

// FetchOne fetches and extracts a single page, returning nil when the
// fetch fails or no main content can be extracted. The extracted title
// falls back to the raw HTML <title> tag, then to a placeholder.
func (c *PageCollector) FetchOne(ctx context.Context, followeeID, sourceURL, pageURL string) *PageRecord {
	log.WithFields(log.Fields{
		"followee": followeeID,
		"url":      pageURL,
	}).Info("Fetching page")

	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		log.WithField("url", pageURL).Errorf("Failed to fetch page: %v", err)
		return nil
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		log.WithField("url", pageURL).Warnf("Content extraction failed: %v", err)
		return nil
	}

	content := strings.TrimSpace(article.TextContent)
	if content == "" {
		log.WithField("url", pageURL).Warn("No content extracted")
		return nil
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = htmlTitle(body)
	}
	if title == "" {
		title = untitledPlaceholder
	}

	return &PageRecord{
		FolloweeID: followeeID,
		SourceURL:  sourceURL,
		URL:        pageURL,
		Title:      title,
		Content:    content,
	}
}

// StoreRecord persists a page record, returning true iff a new item row
// was created. A missing source registration is logged and reported as
// false; genuine database faults propagate.
func (c *PageCollector) StoreRecord(record *PageRecord) (bool, error) {
	sourceID, err := c.sources.GetSourceID(record.FolloweeID, record.SourceURL)
	if errors.Is(err, database.ErrSourceNotFound) {
		log.Errorf("Source missing: %v", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, inserted, err := c.items.InsertItem(database.NewItem{
		FolloweeID:  record.FolloweeID,
		SourceID:    sourceID,
		Title:       record.Title,
		URL:         record.URL,
		PublishedAt: nil,
		Content:     record.Content,
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (c *PageCollector) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
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

// htmlTitle extracts the trimmed text of the raw HTML <title> tag, or ""
// when the document has none.
func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
