package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
)

type FXRateRepository struct {
	db *sql.DB
}

func NewFXRateRepository(db *sql.DB) *FXRateRepository {
	return &FXRateRepository{db: db}
}

// UpsertRate stores one daily exchange rate for a currency pair.
func (r *FXRateRepository) UpsertRate(base, quote string, date time.Time, rate float64) error {
	query := `
		INSERT INTO fx_rates (base_currency, quote_currency, date, rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(base_currency, quote_currency, date) DO UPDATE SET rate = excluded.rate
	`
	if _, err := r.db.Exec(query, base, quote, FormatDate(date), rate); err != nil {
		return fmt.Errorf("failed to upsert fx rate: %w", err)
	}
	return nil
}

// GetRateOn retrieves the most recent rate at or before the given date.
// Returns ErrFXRateNotFound when no rate has been stored yet.
func (r *FXRateRepository) GetRateOn(base, quote string, date time.Time) (float64, error) {
	query := `
		SELECT rate
		FROM fx_rates
		WHERE base_currency = ? AND quote_currency = ? AND date <= ?
		ORDER BY date DESC
		LIMIT 1
	`

	var rate float64
	err := r.db.QueryRow(query, base, quote, FormatDate(date)).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, apperrors.ErrFXRateNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query fx rate: %w", err)
	}
	return rate, nil
}

// DeleteAll removes every stored exchange rate.
func (r *FXRateRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM fx_rates`); err != nil {
		return fmt.Errorf("failed to delete fx rates: %w", err)
	}
	return nil
}
