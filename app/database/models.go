package database

// Source represents a source row in the database
type Source struct {
	ID         int64
	FolloweeID string
	Name       string
	URL        string
	Kind       string
}

// Item represents an item row in the database. SourceName and SourceKind
// are populated on queries that join the sources table.
type Item struct {
	ID             int64
	FolloweeID     string
	SourceID       int64
	Title          string
	URL            string
	PublishedAt    *string // raw feed timestamp, NULL for page items
	Content        string
	TranscriptPath *string
	SummaryPath    *string
	Status         string
	CreatedAt      string

	SourceName string
	SourceKind string
}

// Run represents a pipeline execution audit row
type Run struct {
	ID        int64
	StartedAt string
	Status    string
	Message   *string
}
