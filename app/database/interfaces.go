package database

// SourceStore is the source persistence interface consumed by collectors
// and the API handler.
type SourceStore interface {
	UpsertSources(followeeID string, sources []SourceSpec) error
	GetSourceID(followeeID, url string) (int64, error)
	GetSourceCount() (int, error)
}

// ItemStore is the item persistence interface consumed by collectors,
// commands and the API handler.
type ItemStore interface {
	InsertItem(item NewItem) (int64, bool, error)
	UpdateItem(id int64, patch ItemPatch) error
	FetchPendingItems() ([]Item, error)
	GetItem(id int64) (*Item, error)
	GetLatestItem() (*Item, error)
	GetItemCount() (int, error)
	GetStatusCounts() (map[string]int, error)
}

// RunStore records pipeline execution audit rows.
type RunStore interface {
	RecordRun(status, message string) error
}
