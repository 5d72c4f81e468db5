package repository

import (
	"database/sql"
	"fmt"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves one configuration value. Returns ErrSettingNotFound when the
// key has never been set.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query app_config: %w", err)
	}
	return value, nil
}

// Set stores one configuration value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	query := `
		INSERT INTO app_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set app_config value: %w", err)
	}
	return nil
}

// All retrieves every stored configuration pair.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM app_config`)
	if err != nil {
		return nil, fmt.Errorf("failed to query app_config: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan app_config results: %w", err)
		}
		settings[key] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate app_config results: %w", err)
	}

	return settings, nil
}
