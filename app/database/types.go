package database

// Item statuses. StatusProcessed is set by downstream tooling only.
const (
	StatusPending    = "pending"
	StatusSummarized = "summarized"
	StatusProcessed  = "processed"
)

// Run statuses recorded by the ingest commands.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// SourceSpec describes a source to register for a followee.
type SourceSpec struct {
	Name string
	URL  string
	Kind string
}

// NewItem is a candidate record produced by a collector. PublishedAt is
// nil when the origin carries no timestamp.
type NewItem struct {
	FolloweeID  string
	SourceID    int64
	Title       string
	URL         string
	PublishedAt *string
	Content     string
}

// ItemPatch is a partial update of an item. Only non-nil fields are
// written, and only these columns can be touched.
type ItemPatch struct {
	Status         *string
	SummaryPath    *string
	TranscriptPath *string
	Content        *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Status == nil && p.SummaryPath == nil && p.TranscriptPath == nil && p.Content == nil
}
