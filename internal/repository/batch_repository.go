package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type BatchRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewBatchRepository(db *sql.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// WithTx returns a new BatchRepository scoped to the provided transaction.
func (r *BatchRepository) WithTx(tx *sql.Tx) *BatchRepository {
	return &BatchRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *BatchRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertBatch records one import run.
func (r *BatchRepository) InsertBatch(b model.ImportBatch) error {
	query := `
		INSERT INTO import_batches (id, kind, imported_at, total_rows, accepted, duplicates, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().Exec(query,
		b.ID,
		b.Kind,
		FormatTime(b.ImportedAt),
		b.TotalRows,
		b.Accepted,
		b.Duplicates,
		b.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import batch: %w", err)
	}
	return nil
}

// ListBatches retrieves all import runs, newest first.
func (r *BatchRepository) ListBatches() ([]model.ImportBatch, error) {
	query := `
		SELECT id, kind, imported_at, total_rows, accepted, duplicates, skipped
		FROM import_batches
		ORDER BY imported_at DESC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_batches table: %w", err)
	}
	defer rows.Close()

	var batches []model.ImportBatch
	for rows.Next() {
		var b model.ImportBatch
		var importedAtStr string

		err := rows.Scan(
			&b.ID,
			&b.Kind,
			&importedAtStr,
			&b.TotalRows,
			&b.Accepted,
			&b.Duplicates,
			&b.Skipped,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import_batches table results: %w", err)
		}

		b.ImportedAt, err = ParseTime(importedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		batches = append(batches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import_batches table results: %w", err)
	}

	return batches, nil
}

// DeleteAll removes every import batch record.
func (r *BatchRepository) DeleteAll() error {
	if _, err := r.getQuerier().Exec(`DELETE FROM import_batches`); err != nil {
		return fmt.Errorf("failed to delete import batches: %w", err)
	}
	return nil
}
