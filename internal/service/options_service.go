package service

import (
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// OptionsService exposes the premium and notional aggregations over stored
// option executions.
type OptionsService struct {
	optionRepo *repository.OptionRepository
	policy     CommissionPolicy
}

func NewOptionsService(optionRepo *repository.OptionRepository, policy CommissionPolicy) *OptionsService {
	return &OptionsService{optionRepo: optionRepo, policy: policy}
}

// Summary totals premium received, paid, and net across all option trades,
// plus contract and commission counts.
func (s *OptionsService) Summary() (model.OptionsSummary, error) {
	options, err := s.optionRepo.ListOptions()
	if err != nil {
		return model.OptionsSummary{}, err
	}
	return aggregateOptionsSummary(options, s.policy), nil
}

// ByUnderlying splits contracts and notional exposure by put/call per
// underlying, sorted by underlying.
func (s *OptionsService) ByUnderlying() ([]model.OptionUnderlyingStats, error) {
	options, err := s.optionRepo.ListOptions()
	if err != nil {
		return nil, err
	}
	return aggregateUnderlyingStats(options, s.policy), nil
}
