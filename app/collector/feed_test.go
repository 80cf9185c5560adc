package collector

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfteen/horizons/app/config"
	"github.com/halfteen/horizons/app/database"
)

const testUserAgent = "HorizonsBot/test"

func newTestStore(t *testing.T) (*sql.DB, *database.SourceRepository, *database.ItemRepository) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "horizons.db")
	require.NoError(t, database.Migrate(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, database.NewSourceRepository(db), database.NewItemRepository(db)
}

func singleFeedRegistry(followeeID, feedURL string) *config.Registry {
	return &config.Registry{Followees: map[string]config.Followee{
		followeeID: {
			ID:          followeeID,
			DisplayName: "Test Followee",
			Sources: []config.Source{
				{Name: "Test Feed", URL: feedURL, Kind: config.KindFeed},
			},
		},
	}}
}

const twoEntryFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>First Interview</title>
      <link>https://example.com/item1</link>
      <description>First description</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second Interview</title>
      <link>https://example.com/item2</link>
      <description>Second description</description>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestIngestTwiceYieldsNewThenZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(twoEntryFeed))
	}))
	defer server.Close()

	_, sources, items := newTestStore(t)
	registry := singleFeedRegistry("acme", server.URL)
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	inserted, err := c.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	pending, err := items.FetchPendingItems()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, item := range pending {
		assert.Equal(t, database.StatusPending, item.Status)
	}

	// Unchanged feed: everything is a duplicate.
	inserted, err = c.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := items.GetItemCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFetchOneRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(twoEntryFeed))
	}))
	defer server.Close()

	_, sources, items := newTestStore(t)
	registry := singleFeedRegistry("acme", server.URL)
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	records := c.FetchOne(context.Background(), registry.Followees["acme"])
	require.Len(t, records, 2)

	assert.Equal(t, "acme", records[0].FolloweeID)
	assert.Equal(t, server.URL, records[0].SourceURL)
	assert.Equal(t, "First Interview", records[0].Title)
	assert.Equal(t, "https://example.com/item1", records[0].Link)
	require.NotNil(t, records[0].Published)
	assert.Equal(t, "Mon, 03 Jul 2023 10:00:00 GMT", *records[0].Published)
	require.NotNil(t, records[0].Summary)
	assert.Equal(t, "First description", *records[0].Summary)
}

func TestFetchOneUntitledEntryFallsBack(t *testing.T) {
	feed := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>d</description>
    <item>
      <link>https://example.com/item1</link>
    </item>
  </channel>
</rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer server.Close()

	_, sources, items := newTestStore(t)
	registry := singleFeedRegistry("acme", server.URL)
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	records := c.FetchOne(context.Background(), registry.Followees["acme"])
	require.Len(t, records, 1)
	assert.Equal(t, "(untitled)", records[0].Title)
	assert.Nil(t, records[0].Published)
}

func TestFetchOneSkipsMalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	_, sources, items := newTestStore(t)
	registry := singleFeedRegistry("acme", server.URL)
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	records := c.FetchOne(context.Background(), registry.Followees["acme"])
	assert.Empty(t, records)
}

func TestFetchOneSkipsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, sources, items := newTestStore(t)
	registry := singleFeedRegistry("acme", server.URL)
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	records := c.FetchOne(context.Background(), registry.Followees["acme"])
	assert.Empty(t, records)
}

func TestSyncFolloweesRegistersOnlyFeedSources(t *testing.T) {
	_, sources, items := newTestStore(t)
	registry := &config.Registry{Followees: map[string]config.Followee{
		"acme": {
			ID: "acme",
			Sources: []config.Source{
				{Name: "Feed", URL: "https://example.com/feed", Kind: config.KindFeed},
				{Name: "Page", URL: "https://example.com/page", Kind: config.KindPage},
				{Name: "Channel", URL: "https://example.com/videos", Kind: config.KindVideoChannel},
			},
		},
	}}
	c := NewFeedCollector(registry, sources, items, testUserAgent)

	require.NoError(t, c.SyncFollowees())
	require.NoError(t, c.SyncFollowees())

	count, err := sources.GetSourceCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = sources.GetSourceID("acme", "https://example.com/feed")
	assert.NoError(t, err)
	_, err = sources.GetSourceID("acme", "https://example.com/page")
	assert.ErrorIs(t, err, database.ErrSourceNotFound)
}
