package service

import (
	"strings"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// FXService converts amounts between currencies using the stored daily
// rates. Rates are stored as (base, quote) pairs meaning one unit of quote
// currency is worth `rate` units of base currency, matching how import and
// sync write them.
type FXService struct {
	fxRateRepo *repository.FXRateRepository
}

func NewFXService(fxRateRepo *repository.FXRateRepository) *FXService {
	return &FXService{fxRateRepo: fxRateRepo}
}

// RateOn returns the conversion factor from `from` into `base` at the most
// recent stored date at or before the target date. Same-currency requests
// are always 1. Returns ErrFXRateNotFound when no rate is stored yet.
func (s *FXService) RateOn(base, from string, date time.Time) (float64, error) {
	base = strings.ToUpper(base)
	from = strings.ToUpper(from)
	if base == from {
		return 1, nil
	}
	return s.fxRateRepo.GetRateOn(base, from, date)
}

// Convert converts an amount from one currency into the base currency at
// the given date. Returns ErrFXRateNotFound when the pair has no stored
// rate; callers building series skip such points rather than failing the
// whole series.
func (s *FXService) Convert(amount float64, from, base string, date time.Time) (float64, error) {
	rate, err := s.RateOn(base, from, date)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}
