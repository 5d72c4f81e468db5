package service

import (
	"errors"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/secrets"
)

// SettingKeyFlexToken stores the broker flex-report token, encrypted at rest.
const SettingKeyFlexToken = "broker_flex_token"

const maskedValue = "********"

// SettingsService reads and writes key/value configuration. Secret-valued
// keys go through the secrets box and never leave the service in plaintext
// via All.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	box          *secrets.Box
}

// NewSettingsService creates a new SettingsService. box may be nil when no
// encryption key is configured; secret keys are then rejected.
func NewSettingsService(settingsRepo *repository.SettingsRepository, box *secrets.Box) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, box: box}
}

func isSecretKey(key string) bool {
	return key == SettingKeyFlexToken
}

// Get returns one setting value, decrypting secret keys.
func (s *SettingsService) Get(key string) (string, error) {
	value, err := s.settingsRepo.Get(key)
	if err != nil {
		return "", err
	}
	if isSecretKey(key) {
		if s.box == nil {
			return "", fmt.Errorf("failed to read setting %s: no encryption key configured", key)
		}
		return s.box.Decrypt(value)
	}
	return value, nil
}

// Set stores one setting value, encrypting secret keys.
func (s *SettingsService) Set(key, value string) error {
	if isSecretKey(key) {
		if s.box == nil {
			return fmt.Errorf("failed to store setting %s: no encryption key configured", key)
		}
		token, err := s.box.Encrypt(value)
		if err != nil {
			return err
		}
		value = token
	}
	return s.settingsRepo.Set(key, value)
}

// All returns every stored setting with secret values masked.
func (s *SettingsService) All() (map[string]string, error) {
	values, err := s.settingsRepo.All()
	if err != nil {
		return nil, err
	}
	for key := range values {
		if isSecretKey(key) {
			values[key] = maskedValue
		}
	}
	return values, nil
}

// Has reports whether a setting exists without exposing its value.
func (s *SettingsService) Has(key string) (bool, error) {
	_, err := s.settingsRepo.Get(key)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
