package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmoncada/portfolio-tracker-backend/internal/importer"
	"github.com/nmoncada/portfolio-tracker-backend/internal/ledger"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// ImportResult reports the outcome of one import run.
type ImportResult struct {
	BatchID    string                `json:"batchId"`
	TotalRows  int                   `json:"totalRows"`
	Accepted   int                   `json:"accepted"`
	Duplicates int                   `json:"duplicates"`
	Skipped    []importer.SkippedRow `json:"skipped,omitempty"`
}

// ImportService runs sanitization, deduplication, and persistence of import
// batches as one unit. Imports are not safe for concurrent invocation; the
// HTTP layer funnels them through a single writer.
type ImportService struct {
	db           *sql.DB
	dedup        *ledger.Ledger
	tradeRepo    *repository.TradeRepository
	transferRepo *repository.TransferRepository
	dividendRepo *repository.DividendRepository
	optionRepo   *repository.OptionRepository
	batchRepo    *repository.BatchRepository
}

func NewImportService(
	db *sql.DB,
	dedup *ledger.Ledger,
	tradeRepo *repository.TradeRepository,
	transferRepo *repository.TransferRepository,
	dividendRepo *repository.DividendRepository,
	optionRepo *repository.OptionRepository,
	batchRepo *repository.BatchRepository,
) *ImportService {
	return &ImportService{
		db:           db,
		dedup:        dedup,
		tradeRepo:    tradeRepo,
		transferRepo: transferRepo,
		dividendRepo: dividendRepo,
		optionRepo:   optionRepo,
		batchRepo:    batchRepo,
	}
}

// LoadLedger seeds the dedup ledger from storage. Called once at startup so
// re-imports after a restart still collide with persisted records.
func (s *ImportService) LoadLedger() error {
	trades, err := s.tradeRepo.ListTrades()
	if err != nil {
		return err
	}
	transferIDs, err := s.transferRepo.ListTransactionIDs()
	if err != nil {
		return err
	}
	dividendIDs, err := s.dividendRepo.ListActionIDs()
	if err != nil {
		return err
	}
	optionIDs, err := s.optionRepo.ListOptionIDs()
	if err != nil {
		return err
	}

	s.dedup.SeedTrades(trades)
	s.dedup.SeedTransferIDs(transferIDs)
	s.dedup.SeedDividendIDs(dividendIDs)
	s.dedup.SeedOptionIDs(optionIDs)
	return nil
}

// ImportOperations ingests a combined operations export: stock trades, cash
// movements, FX conversions, and option executions. Cash flows for accepted
// stock trades are synthesized here so every settlement shows up in the cash
// ledger exactly once.
func (s *ImportService) ImportOperations(rows []importer.Row) (ImportResult, error) {
	batch := importer.SanitizeOperations(rows)

	trades, dupTrades := s.dedup.FilterTrades(batch.Stocks)
	cashRows := append(batch.Cash, importer.StockTradesToCashRows(trades)...)
	transfers, dupTransfers := s.dedup.FilterTransfers(cashRows)
	options, dupOptions := s.dedup.FilterOptions(batch.Options)

	result := ImportResult{
		BatchID:    uuid.NewString(),
		TotalRows:  len(rows),
		Accepted:   len(trades) + len(transfers) + len(options),
		Duplicates: dupTrades + dupTransfers + dupOptions,
		Skipped:    batch.Skipped,
	}

	err := s.persist(result, "operations", func(tx *sql.Tx) error {
		if err := s.tradeRepo.WithTx(tx).InsertTrades(trades); err != nil {
			return err
		}
		if err := s.transferRepo.WithTx(tx).InsertTransfers(transfers); err != nil {
			return err
		}
		return s.optionRepo.WithTx(tx).InsertOptions(options)
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// ImportTransfers ingests an external transfers export.
func (s *ImportService) ImportTransfers(rows []importer.Row) (ImportResult, error) {
	sanitized, skipped := importer.SanitizeTransfers(rows)
	transfers, duplicates := s.dedup.FilterTransfers(sanitized)

	result := ImportResult{
		BatchID:    uuid.NewString(),
		TotalRows:  len(rows),
		Accepted:   len(transfers),
		Duplicates: duplicates,
		Skipped:    skipped,
	}

	err := s.persist(result, "transfers", func(tx *sql.Tx) error {
		return s.transferRepo.WithTx(tx).InsertTransfers(transfers)
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// ImportDividends ingests a corporate-actions export, keeping only cash
// dividend payouts.
func (s *ImportService) ImportDividends(rows []importer.Row) (ImportResult, error) {
	sanitized, skipped := importer.SanitizeDividends(rows)
	dividends, duplicates := s.dedup.FilterDividends(sanitized)

	result := ImportResult{
		BatchID:    uuid.NewString(),
		TotalRows:  len(rows),
		Accepted:   len(dividends),
		Duplicates: duplicates,
		Skipped:    skipped,
	}

	err := s.persist(result, "dividends", func(tx *sql.Tx) error {
		return s.dividendRepo.WithTx(tx).InsertDividends(dividends)
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// persist runs the batch's inserts plus its batch record in one transaction.
// On failure the dedup ledger is rebuilt from storage, since the filter step
// already marked the rolled-back records as seen.
func (s *ImportService) persist(result ImportResult, kind string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}

	err = insert(tx)
	if err == nil {
		err = s.batchRepo.WithTx(tx).InsertBatch(model.ImportBatch{
			ID:         result.BatchID,
			Kind:       kind,
			ImportedAt: time.Now().UTC(),
			TotalRows:  result.TotalRows,
			Accepted:   result.Accepted,
			Duplicates: result.Duplicates,
			Skipped:    len(result.Skipped),
		})
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		_ = tx.Rollback()
		s.dedup.Reset()
		if reloadErr := s.LoadLedger(); reloadErr != nil {
			return fmt.Errorf("failed to reload ledger after rollback: %w", reloadErr)
		}
		return fmt.Errorf("failed to persist import batch: %w", err)
	}
	return nil
}

// Reset clears all imported records, batch history, and the dedup ledger in
// one transaction, so a subsequent import of previously seen data is
// accepted in full. Synced market data (prices, fx rates) survives.
func (s *ImportService) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}

	for _, del := range []func() error{
		s.tradeRepo.WithTx(tx).DeleteAll,
		s.transferRepo.WithTx(tx).DeleteAll,
		s.dividendRepo.WithTx(tx).DeleteAll,
		s.optionRepo.WithTx(tx).DeleteAll,
		s.batchRepo.WithTx(tx).DeleteAll,
	} {
		if err := del(); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	s.dedup.Reset()
	return nil
}

// Batches lists past import runs, newest first.
func (s *ImportService) Batches() ([]model.ImportBatch, error) {
	return s.batchRepo.ListBatches()
}
