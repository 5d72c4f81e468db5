package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/handlers"
	custommiddleware "github.com/nmoncada/portfolio-tracker-backend/internal/api/middleware"
	"github.com/nmoncada/portfolio-tracker-backend/internal/config"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// Services bundles everything the router hands to its handlers.
type Services struct {
	System    *service.SystemService
	Import    *service.ImportService
	Positions *service.PositionService
	Transfers *service.TransferService
	Dividends *service.DividendService
	Options   *service.OptionsService
	Series    *service.SeriesService
	Prices    *service.PriceService
	Settings  *service.SettingsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System, svc.Import)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Post("/reset", systemHandler.Reset)
		})

		r.Route("/import", func(r chi.Router) {
			importHandler := handlers.NewImportHandler(svc.Import)
			r.Post("/trades", importHandler.Trades)
			r.Post("/transfers", importHandler.Transfers)
			r.Post("/dividends", importHandler.Dividends)
			r.Get("/batches", importHandler.Batches)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(svc.Positions, svc.Transfers)
			r.Get("/", positionHandler.Positions)
			r.Get("/summary", positionHandler.Summary)
		})

		transferHandler := handlers.NewTransferHandler(svc.Transfers)
		r.Get("/transfers", transferHandler.Transfers)

		r.Route("/dividends", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividends)
			r.Get("/", dividendHandler.Dividends)
			r.Get("/daily", dividendHandler.Daily)
			r.Get("/by-asset", dividendHandler.ByAsset)
		})

		r.Route("/options", func(r chi.Router) {
			optionsHandler := handlers.NewOptionsHandler(svc.Options)
			r.Get("/summary", optionsHandler.Summary)
			r.Get("/by-underlying", optionsHandler.ByUnderlying)
		})

		r.Route("/series", func(r chi.Router) {
			seriesHandler := handlers.NewSeriesHandler(svc.Series)
			r.Get("/portfolio", seriesHandler.Portfolio)
			r.Get("/cash", seriesHandler.Cash)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.Prices)
			r.Get("/{ticker}", priceHandler.History)
			r.Post("/sync", priceHandler.Sync)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/", settingsHandler.Settings)
			r.Put("/", settingsHandler.Update)
		})
	})

	return r
}
