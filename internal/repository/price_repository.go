package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type PriceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// UpsertPrice stores one daily close. A provisional price (intraday quote
// saved before the session closes) is overwritten by the next upsert; a
// final close replaces a provisional one but not vice versa.
func (r *PriceRepository) UpsertPrice(ticker string, date time.Time, close float64, provisional bool) error {
	query := `
		INSERT INTO prices (ticker, date, close, provisional)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET
			close = excluded.close,
			provisional = excluded.provisional
		WHERE prices.provisional = 1 OR excluded.provisional = 0
	`
	p := 0
	if provisional {
		p = 1
	}
	if _, err := r.db.Exec(query, ticker, FormatDate(date), close, p); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

// GetPrices retrieves the full daily close history for a ticker, oldest first.
func (r *PriceRepository) GetPrices(ticker string) ([]model.PricePoint, error) {
	query := `
		SELECT date, close, provisional
		FROM prices
		WHERE ticker = ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices table: %w", err)
	}
	defer rows.Close()

	var prices []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		var provisional int
		if err := rows.Scan(&p.Date, &p.Close, &provisional); err != nil {
			return nil, fmt.Errorf("failed to scan prices table results: %w", err)
		}
		p.Provisional = provisional != 0
		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices table results: %w", err)
	}

	return prices, nil
}

// GetLatestClose retrieves the most recent close at or before the given date.
// Returns ErrPriceNotFound when the ticker has no price history yet.
func (r *PriceRepository) GetLatestClose(ticker string, date time.Time) (float64, error) {
	query := `
		SELECT close
		FROM prices
		WHERE ticker = ? AND date <= ?
		ORDER BY date DESC
		LIMIT 1
	`

	var close float64
	err := r.db.QueryRow(query, ticker, FormatDate(date)).Scan(&close)
	if err == sql.ErrNoRows {
		return 0, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest close: %w", err)
	}
	return close, nil
}

// DeleteAll removes every stored price.
func (r *PriceRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM prices`); err != nil {
		return fmt.Errorf("failed to delete prices: %w", err)
	}
	return nil
}
