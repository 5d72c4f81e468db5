package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

type OptionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOptionRepository(db *sql.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

// WithTx returns a new OptionRepository scoped to the provided transaction.
func (r *OptionRepository) WithTx(tx *sql.Tx) *OptionRepository {
	return &OptionRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *OptionRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertOptions persists accepted option executions. Rows whose option_id
// already exists are ignored. Undecoded contracts store NULL for expiry and
// option type so reads can tell "not an OCC symbol" from real values.
func (r *OptionRepository) InsertOptions(options []model.Option) error {
	query := `
		INSERT OR IGNORE INTO options
		(option_id, underlying, symbol, side, contracts, trade_price, multiplier, premium_gross,
		 commission, commission_currency, currency, datetime, exec_id, expiry, opt_type, strike, notional)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, o := range options {
		var expiry, optType sql.NullString
		if o.Decoded() {
			expiry = sql.NullString{String: FormatDate(o.Expiry), Valid: true}
			optType = sql.NullString{String: o.OptType, Valid: true}
		}
		_, err := r.getQuerier().Exec(query,
			o.OptionID,
			o.Underlying,
			o.Symbol,
			string(o.Side),
			o.Contracts,
			o.TradePrice,
			o.Multiplier,
			o.PremiumGross,
			o.Commission,
			o.CommissionCurrency,
			o.Currency,
			FormatTime(o.DateTime),
			o.ExecID,
			expiry,
			optType,
			o.Strike,
			o.Notional,
		)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

// ListOptions retrieves all option executions ordered by time, oldest first.
func (r *OptionRepository) ListOptions() ([]model.Option, error) {
	query := `
		SELECT option_id, underlying, symbol, side, contracts, trade_price, multiplier, premium_gross,
		       commission, commission_currency, currency, datetime, exec_id, expiry, opt_type, strike, notional
		FROM options
		ORDER BY datetime ASC
	`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query options table: %w", err)
	}
	defer rows.Close()

	var options []model.Option
	for rows.Next() {
		var o model.Option
		var side, datetimeStr string
		var expiry, optType sql.NullString

		err := rows.Scan(
			&o.OptionID,
			&o.Underlying,
			&o.Symbol,
			&side,
			&o.Contracts,
			&o.TradePrice,
			&o.Multiplier,
			&o.PremiumGross,
			&o.Commission,
			&o.CommissionCurrency,
			&o.Currency,
			&datetimeStr,
			&o.ExecID,
			&expiry,
			&optType,
			&o.Strike,
			&o.Notional,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan options table results: %w", err)
		}

		o.Side = model.OptionSide(side)

		o.DateTime, err = ParseTime(datetimeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		if optType.Valid {
			o.OptType = optType.String
		}
		if expiry.Valid {
			o.Expiry, err = ParseTime(expiry.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse expiry: %w", err)
			}
		}

		options = append(options, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options table results: %w", err)
	}

	return options, nil
}

// ListOptionIDs retrieves every stored option id, for seeding the dedup
// ledger at startup.
func (r *OptionRepository) ListOptionIDs() ([]string, error) {
	rows, err := r.getQuerier().Query(`SELECT option_id FROM options`)
	if err != nil {
		return nil, fmt.Errorf("failed to query option ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan option id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate option ids: %w", err)
	}

	return ids, nil
}

// DeleteAll removes every option execution.
func (r *OptionRepository) DeleteAll() error {
	if _, err := r.getQuerier().Exec(`DELETE FROM options`); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	return nil
}
