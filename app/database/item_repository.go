package database

import (
	"database/sql"
	"errors"
	"fmt"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// ItemRepository handles database operations for ingested items
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// InsertItem attempts to insert a candidate record. A violation of the
// (followee_id, title) uniqueness constraint is the expected signal for
// "already ingested" and is reported as inserted=false, not as an error.
func (r *ItemRepository) InsertItem(item NewItem) (int64, bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO items (followee_id, source_id, title, url, published_at, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.FolloweeID, item.SourceID, item.Title, item.URL, item.PublishedAt, item.Content)
	if err != nil {
		if isConstraintViolation(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to insert item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get inserted item id: %w", err)
	}
	return id, true, nil
}

func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
}

// UpdateItem applies a partial update to an item by id. Unknown ids
// affect zero rows without error; callers are expected to hold a valid id.
func (r *ItemRepository) UpdateItem(id int64, patch ItemPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("items")

	var assignments []string
	if patch.Status != nil {
		assignments = append(assignments, ub.Assign("status", *patch.Status))
	}
	if patch.SummaryPath != nil {
		assignments = append(assignments, ub.Assign("summary_path", *patch.SummaryPath))
	}
	if patch.TranscriptPath != nil {
		assignments = append(assignments, ub.Assign("transcript_path", *patch.TranscriptPath))
	}
	if patch.Content != nil {
		assignments = append(assignments, ub.Assign("content", *patch.Content))
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update item %d: %w", id, err)
	}
	return nil
}

const itemColumns = `
	items.id, items.followee_id, items.source_id, items.title, items.url,
	items.published_at, COALESCE(items.content, ''), items.transcript_path,
	items.summary_path, items.status, items.created_at,
	sources.name, sources.kind
`

// FetchPendingItems returns pending items joined with their source,
// newest published first with NULL timestamps last, tie-broken by
// creation time.
func (r *ItemRepository) FetchPendingItems() ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT `+itemColumns+`
		FROM items
		JOIN sources ON items.source_id = sources.id
		WHERE items.status = ?
		ORDER BY items.published_at IS NULL, items.published_at DESC, items.created_at DESC
	`, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetItem returns a single item by id, or nil when it does not exist.
func (r *ItemRepository) GetItem(id int64) (*Item, error) {
	row := r.db.QueryRow(`
		SELECT `+itemColumns+`
		FROM items
		JOIN sources ON items.source_id = sources.id
		WHERE items.id = ?
	`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// GetLatestItem returns the most recently ingested item across all
// statuses, or nil when the store is empty. Ordering is by creation time,
// not published time, so a just-stored page item (which never carries a
// published timestamp) is the latest.
func (r *ItemRepository) GetLatestItem() (*Item, error) {
	row := r.db.QueryRow(`
		SELECT ` + itemColumns + `
		FROM items
		JOIN sources ON items.source_id = sources.id
		ORDER BY items.created_at DESC, items.id DESC
		LIMIT 1
	`)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest item: %w", err)
	}
	return item, nil
}

// GetItemCount returns the total number of items
func (r *ItemRepository) GetItemCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

// GetStatusCounts returns the number of items per status
func (r *ItemRepository) GetStatusCounts() (map[string]int, error) {
	rows, err := r.db.Query("SELECT status, COUNT(*) FROM items GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.FolloweeID, &item.SourceID, &item.Title, &item.URL,
		&item.PublishedAt, &item.Content, &item.TranscriptPath,
		&item.SummaryPath, &item.Status, &item.CreatedAt,
		&item.SourceName, &item.SourceKind,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}
