// Package config loads the application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Simulation SimulationConfig
	Paths      PathConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds results-API server settings
type ServerConfig struct {
	Port string
}

// SimulationConfig holds run defaults
type SimulationConfig struct {
	Trials  int
	Seed    int64
	Points  int
	Span    float64
	Workers int
}

// PathConfig holds file system paths
type PathConfig struct {
	OutputDir string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables win over file entries either way.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Simulation: SimulationConfig{
			Trials:  getEnvInt("SIM_TRIALS", 100),
			Seed:    int64(getEnvInt("SIM_SEED", 42)),
			Points:  getEnvInt("SIM_POINTS", 250),
			Span:    getEnvFloat("SIM_SPAN", 300.0),
			Workers: getEnvInt("SIM_WORKERS", 0),
		},
		Paths: PathConfig{
			OutputDir: getEnv("OUTPUT_DIR", "out"),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
