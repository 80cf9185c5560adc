package collector

// untitledPlaceholder is stored when neither the feed entry nor the page
// supplies a usable title.
const untitledPlaceholder = "(untitled)"

// FeedRecord is a transient candidate produced from one feed entry.
// Nothing is persisted until the store accepts it.
type FeedRecord struct {
	FolloweeID string
	SourceURL  string
	Title      string
	Link       string
	Published  *string // raw feed timestamp string
	Summary    *string
}

// PageRecord is a transient candidate produced from a single web page.
type PageRecord struct {
	FolloweeID string
	SourceURL  string
	URL        string
	Title      string
	Content    string
}
