package service

import (
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// TransferService exposes the stored cash ledger.
type TransferService struct {
	transferRepo *repository.TransferRepository
}

// NewTransferService creates a new TransferService
func NewTransferService(transferRepo *repository.TransferRepository) *TransferService {
	return &TransferService{transferRepo: transferRepo}
}

// List returns every ledger row ordered by datetime.
func (s *TransferService) List() ([]model.Transfer, error) {
	return s.transferRepo.ListTransfers()
}

// External returns only rows that move money in or out of the account.
func (s *TransferService) External() ([]model.Transfer, error) {
	transfers, err := s.transferRepo.ListTransfers()
	if err != nil {
		return nil, err
	}
	external := make([]model.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t.IsExternal() {
			external = append(external, t)
		}
	}
	return external, nil
}
