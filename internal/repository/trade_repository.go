package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a new TradeRepository scoped to the provided transaction.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TradeRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTrades persists accepted trades. Rows whose trade_id already exists
// are ignored; the dedup ledger is the authority on duplicates, the UNIQUE
// constraint is the backstop.
func (r *TradeRepository) InsertTrades(trades []model.Trade) error {
	query := `
		INSERT OR IGNORE INTO trades
		(trade_id, ticker, quantity, purchase, datetime, commission, commission_currency, currency, isin, asset_class)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range trades {
		id := t.TradeID
		if id == "" {
			id = t.Key()
		}
		_, err := r.getQuerier().Exec(query,
			id,
			t.Ticker,
			t.Quantity,
			t.Price,
			FormatTime(t.DateTime),
			t.Commission,
			t.CommissionCurrency,
			t.Currency,
			t.ISIN,
			t.AssetClass,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}
	return nil
}

// ListTrades retrieves all trades ordered by execution time, oldest first.
func (r *TradeRepository) ListTrades() ([]model.Trade, error) {
	query := `
		SELECT trade_id, ticker, quantity, purchase, datetime, commission, commission_currency, currency, isin, asset_class
		FROM trades
		ORDER BY datetime ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades table: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		var datetimeStr string

		err := rows.Scan(
			&t.TradeID,
			&t.Ticker,
			&t.Quantity,
			&t.Price,
			&datetimeStr,
			&t.Commission,
			&t.CommissionCurrency,
			&t.Currency,
			&t.ISIN,
			&t.AssetClass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trades table results: %w", err)
		}

		t.DateTime, err = ParseTime(datetimeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades table results: %w", err)
	}

	return trades, nil
}

// DeleteAll removes every trade.
func (r *TradeRepository) DeleteAll() error {
	if _, err := r.getQuerier().Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("failed to delete trades: %w", err)
	}
	return nil
}
