package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/ledger"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
	"github.com/nmoncada/portfolio-tracker-backend/internal/testutil"
)

func newTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	svc := service.NewImportService(
		db,
		ledger.New(),
		repository.NewTradeRepository(db),
		repository.NewTransferRepository(db),
		repository.NewDividendRepository(db),
		repository.NewOptionRepository(db),
		repository.NewBatchRepository(db),
	)
	if err := svc.LoadLedger(); err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}
	return svc
}

func TestSystemHandler_Health(t *testing.T) {
	setupHandler := func(t *testing.T) (*SystemHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(service.NewSystemService(db), newTestImportService(t, db))
		return handler, db
	}

	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}

		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, db := setupHandler(t)

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSystemHandler_Reset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewSystemHandler(service.NewSystemService(db), newTestImportService(t, db))

	testutil.CreateTrade(t, db, "AAPL", 10, 180, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	testutil.NewTransfer(1000).Build(t, db)
	testutil.CreatePrice(t, db, "AAPL", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 182)

	req := httptest.NewRequest(http.MethodPost, "/api/system/reset", nil)
	w := httptest.NewRecorder()

	handler.Reset(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	testutil.AssertRowCount(t, db, "trades", 0)
	testutil.AssertRowCount(t, db, "transfers", 0)
	// Synced market data survives a reset.
	testutil.AssertRowCount(t, db, "prices", 1)
}
