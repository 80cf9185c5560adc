package database

import (
	"database/sql"
	"fmt"
)

// RunRepository appends pipeline execution audit rows. Rows are never
// updated or deleted.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) RecordRun(status, message string) error {
	if _, err := r.db.Exec(`
		INSERT INTO runs (status, message) VALUES (?, ?)
	`, status, message); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
