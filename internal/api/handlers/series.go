package handlers

import (
	"net/http"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/api/response"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// SeriesHandler handles time-series HTTP requests
type SeriesHandler struct {
	seriesService *service.SeriesService
}

// NewSeriesHandler creates a new SeriesHandler
func NewSeriesHandler(seriesService *service.SeriesService) *SeriesHandler {
	return &SeriesHandler{
		seriesService: seriesService,
	}
}

// seriesParams parses interval, from, and to query values. interval defaults
// to month; from to the epoch; to to today.
func (h *SeriesHandler) seriesParams(w http.ResponseWriter, r *http.Request) (model.Interval, time.Time, time.Time, bool) {
	interval := model.IntervalMonth
	if raw := r.URL.Query().Get("interval"); raw != "" {
		interval = model.Interval(raw)
		if !interval.Valid() {
			response.Error(w, http.StatusBadRequest, "invalid interval", raw)
			return "", time.Time{}, time.Time{}, false
		}
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "failed to parse from date", err.Error())
			return "", time.Time{}, time.Time{}, false
		}
		from = parsed
	}

	to := time.Now()
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "failed to parse to date", err.Error())
			return "", time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	if from.After(to) {
		response.Error(w, http.StatusBadRequest, "from date is after to date", "")
		return "", time.Time{}, time.Time{}, false
	}

	return interval, from, to, true
}

// Portfolio returns the bucketed combined series: positions value, running
// external transfers, converted cash, and percentage profit per bucket end.
func (h *SeriesHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	interval, from, to, ok := h.seriesParams(w, r)
	if !ok {
		return
	}

	series, err := h.seriesService.PortfolioSeries(interval, from, to)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to build portfolio series", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, series)
}

// Cash returns per-currency balance series over the same buckets.
func (h *SeriesHandler) Cash(w http.ResponseWriter, r *http.Request) {
	interval, from, to, ok := h.seriesParams(w, r)
	if !ok {
		return
	}

	series, err := h.seriesService.CashSeries(interval, from, to)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to build cash series", err.Error())
		return
	}
	response.JSON(w, http.StatusOK, series)
}
