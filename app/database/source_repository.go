package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrSourceNotFound signals a lookup for a source that was never
// registered. Callers are expected to have synced sources first, so this
// is a precondition failure, not an I/O fault.
var ErrSourceNotFound = errors.New("source not found")

// SourceRepository handles database operations for followee sources
type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpsertSources registers the given sources for a followee. Rows that
// already exist for (followee_id, url) are silently skipped, making
// repeated registration a no-op.
func (r *SourceRepository) UpsertSources(followeeID string, sources []SourceSpec) error {
	for _, source := range sources {
		_, err := r.db.Exec(`
			INSERT OR IGNORE INTO sources (followee_id, name, url, kind)
			VALUES (?, ?, ?, ?)
		`, followeeID, source.Name, source.URL, source.Kind)
		if err != nil {
			return fmt.Errorf("failed to upsert source %s: %w", source.URL, err)
		}
	}
	return nil
}

// GetSourceID resolves the database id for a (followee, url) pair,
// returning ErrSourceNotFound when no such source is registered.
func (r *SourceRepository) GetSourceID(followeeID, url string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT id FROM sources WHERE followee_id = ? AND url = ?
	`, followeeID, url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: followee %q url %q", ErrSourceNotFound, followeeID, url)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get source id: %w", err)
	}
	return id, nil
}

// GetSourceCount returns the total number of registered sources
func (r *SourceRepository) GetSourceCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}
