package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	WaterCSV     string // raw observation export
	LandCoverCSV string // HUC12 land-cover reference
	OutDir       string // directory the gap tables are written to / read from

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Workers            int // 0 = available cores
	DetectionThreshold time.Duration
	SplitByOrg         bool
}

// Load reads configuration from environment variables (optionally a .env
// file), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	threshold, err := parseDuration("DETECTION_THRESHOLD", "24h")
	if err != nil {
		return nil, err
	}

	workers, err := parseWorkers()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WaterCSV:           envOrDefault("WATER_CSV", "data/Water_FINAL.csv"),
		LandCoverCSV:       envOrDefault("LANDCOVER_CSV", "data/huc12_land_cover.csv"),
		OutDir:             envOrDefault("OUT_DIR", "data"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		Workers:            workers,
		DetectionThreshold: threshold,
		SplitByOrg:         os.Getenv("SPLIT_BY_ORG") == "true",
	}

	if cfg.WaterCSV == "" {
		return nil, errors.New("WATER_CSV is required")
	}
	if cfg.LandCoverCSV == "" {
		return nil, errors.New("LANDCOVER_CSV is required")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("OUT_DIR is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseWorkers() (int, error) {
	s := os.Getenv("WORKERS")
	if s == "" {
		return 0, nil // sized to available cores downstream
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 256 {
		return 0, errors.New("invalid WORKERS")
	}
	return n, nil
}
