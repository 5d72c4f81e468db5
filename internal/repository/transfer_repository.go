package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type TransferRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// WithTx returns a new TransferRepository scoped to the provided transaction.
func (r *TransferRepository) WithTx(tx *sql.Tx) *TransferRepository {
	return &TransferRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TransferRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTransfers persists accepted cash-ledger entries. Rows whose
// transaction_id already exists are ignored.
func (r *TransferRepository) InsertTransfers(transfers []model.Transfer) error {
	query := `
		INSERT OR IGNORE INTO transfers
		(transaction_id, currency, datetime, amount, origin)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, t := range transfers {
		_, err := r.getQuerier().Exec(query,
			t.TransactionID,
			t.Currency,
			FormatTime(t.DateTime),
			t.Amount,
			t.Origin,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transfer: %w", err)
		}
	}
	return nil
}

// ListTransfers retrieves all cash-ledger entries ordered by time, oldest first.
func (r *TransferRepository) ListTransfers() ([]model.Transfer, error) {
	query := `
		SELECT transaction_id, currency, datetime, amount, origin
		FROM transfers
		ORDER BY datetime ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers table: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		var datetimeStr string

		err := rows.Scan(
			&t.TransactionID,
			&t.Currency,
			&datetimeStr,
			&t.Amount,
			&t.Origin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfers table results: %w", err)
		}

		t.DateTime, err = ParseTime(datetimeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		transfers = append(transfers, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers table results: %w", err)
	}

	return transfers, nil
}

// ListTransactionIDs retrieves every stored transaction id, for seeding the
// dedup ledger at startup.
func (r *TransferRepository) ListTransactionIDs() ([]string, error) {
	rows, err := r.getQuerier().Query(`SELECT transaction_id FROM transfers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan transfer id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfer ids: %w", err)
	}

	return ids, nil
}

// DeleteAll removes every cash-ledger entry.
func (r *TransferRepository) DeleteAll() error {
	if _, err := r.getQuerier().Exec(`DELETE FROM transfers`); err != nil {
		return fmt.Errorf("failed to delete transfers: %w", err)
	}
	return nil
}
