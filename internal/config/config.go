package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nmoncada/portfolio-tracker-backend/internal/service"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Portfolio PortfolioConfig
	Secrets   SecretsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// PortfolioConfig holds accounting-specific configuration
type PortfolioConfig struct {
	BaseCurrency      string
	CommissionPolicy  service.CommissionPolicy
	PriceSyncSchedule string // cron expression for the daily price sync
}

// SecretsConfig holds the encryption key for stored credentials
type SecretsConfig struct {
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	policy, err := service.ParseCommissionPolicy(os.Getenv("OPTION_COMMISSION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS",
				"http://localhost:3000,http://localhost")),
		},
		Portfolio: PortfolioConfig{
			BaseCurrency:      strings.ToUpper(getEnv("BASE_CURRENCY", "EUR")),
			CommissionPolicy:  policy,
			PriceSyncSchedule: getEnv("PRICE_SYNC_SCHEDULE", "0 22 * * *"),
		},
		Secrets: SecretsConfig{
			FernetKey: os.Getenv("FERNET_KEY"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
