package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api"
	"github.com/nmoncada/portfolio-tracker-backend/internal/config"
	"github.com/nmoncada/portfolio-tracker-backend/internal/database"
	"github.com/nmoncada/portfolio-tracker-backend/internal/ledger"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/secrets"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
	"github.com/nmoncada/portfolio-tracker-backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	tradeRepo := repository.NewTradeRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	fxRateRepo := repository.NewFXRateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	// Secrets box for encrypted settings (optional)
	var box *secrets.Box
	if cfg.Secrets.FernetKey != "" {
		box, err = secrets.NewBox(cfg.Secrets.FernetKey)
		if err != nil {
			log.Fatalf("Failed to load encryption key: %v", err)
		}
	}

	// Create services
	dedup := ledger.New()
	systemService := service.NewSystemService(db)
	importService := service.NewImportService(
		db,
		dedup,
		tradeRepo,
		transferRepo,
		dividendRepo,
		optionRepo,
		batchRepo,
	)
	if err := importService.LoadLedger(); err != nil {
		log.Fatalf("Failed to load dedup ledger: %v", err)
	}

	fxService := service.NewFXService(fxRateRepo)
	transferService := service.NewTransferService(transferRepo)
	dividendService := service.NewDividendService(dividendRepo)
	optionsService := service.NewOptionsService(optionRepo, cfg.Portfolio.CommissionPolicy)
	positionService := service.NewPositionService(
		tradeRepo,
		dividendRepo,
		optionRepo,
		priceRepo,
		cfg.Portfolio.CommissionPolicy,
	)
	seriesService := service.NewSeriesService(
		tradeRepo,
		transferRepo,
		priceRepo,
		fxService,
		cfg.Portfolio.BaseCurrency,
	)
	priceService := service.NewPriceService(
		tradeRepo,
		transferRepo,
		priceRepo,
		fxRateRepo,
		yahoo.NewFinanceClient(),
		cfg.Portfolio.BaseCurrency,
	)
	settingsService := service.NewSettingsService(settingsRepo, box)

	// Schedule the daily price sync
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Portfolio.PriceSyncSchedule, func() {
		if _, err := priceService.SyncAll(context.Background()); err != nil {
			log.Printf("Scheduled price sync failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule price sync: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Import:    importService,
		Positions: positionService,
		Transfers: transferService,
		Dividends: dividendService,
		Options:   optionsService,
		Series:    seriesService,
		Prices:    priceService,
		Settings:  settingsService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
