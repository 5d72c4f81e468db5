package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type DividendRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// WithTx returns a new DividendRepository scoped to the provided transaction.
func (r *DividendRepository) WithTx(tx *sql.Tx) *DividendRepository {
	return &DividendRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *DividendRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertDividends persists accepted dividends. Rows whose action_id already
// exists are ignored.
func (r *DividendRepository) InsertDividends(dividends []model.Dividend) error {
	query := `
		INSERT OR IGNORE INTO dividends
		(action_id, ticker, currency, datetime, amount, gross, tax, issuer_country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, d := range dividends {
		_, err := r.getQuerier().Exec(query,
			d.ActionID,
			d.Ticker,
			d.Currency,
			FormatTime(d.DateTime),
			d.Amount,
			d.Gross,
			d.Tax,
			d.IssuerCountryCode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dividend: %w", err)
		}
	}
	return nil
}

// ListDividends retrieves all dividends ordered by payment time, oldest first.
func (r *DividendRepository) ListDividends() ([]model.Dividend, error) {
	query := `
		SELECT action_id, ticker, currency, datetime, amount, gross, tax, issuer_country
		FROM dividends
		ORDER BY datetime ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividends table: %w", err)
	}
	defer rows.Close()

	var dividends []model.Dividend
	for rows.Next() {
		var d model.Dividend
		var datetimeStr string

		err := rows.Scan(
			&d.ActionID,
			&d.Ticker,
			&d.Currency,
			&datetimeStr,
			&d.Amount,
			&d.Gross,
			&d.Tax,
			&d.IssuerCountryCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividends table results: %w", err)
		}

		d.DateTime, err = ParseTime(datetimeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		dividends = append(dividends, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dividends table results: %w", err)
	}

	return dividends, nil
}

// ListActionIDs retrieves every stored action id, for seeding the dedup
// ledger at startup.
func (r *DividendRepository) ListActionIDs() ([]string, error) {
	rows, err := r.getQuerier().Query(`SELECT action_id FROM dividends`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan dividend id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dividend ids: %w", err)
	}

	return ids, nil
}

// DeleteAll removes every dividend.
func (r *DividendRepository) DeleteAll() error {
	if _, err := r.getQuerier().Exec(`DELETE FROM dividends`); err != nil {
		return fmt.Errorf("failed to delete dividends: %w", err)
	}
	return nil
}
