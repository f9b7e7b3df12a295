package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
)

// Config is the process configuration read from the environment.
// A .env file is loaded by main before Load is called.
type Config struct {
	Port        string
	DBDriver    db.Dialect
	DBPath      string
	DatabaseURL string
	SeedPath    string

	MapsAPIKey string
	Geocoder   string
	ORSKey     string
	RedisURL   string

	JWTSecret string
	TokenTTL  time.Duration

	Campus domain.Coordinate
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	driver, err := db.ParseDialect(Get("DB_DRIVER", "sqlite"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	ttl, err := time.ParseDuration(Get("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: TOKEN_TTL: %w", err)
	}

	lat, err := strconv.ParseFloat(Get("CAMPUS_LAT", "33.9480"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("load config: CAMPUS_LAT: %w", err)
	}
	lng, err := strconv.ParseFloat(Get("CAMPUS_LNG", "-83.3773"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("load config: CAMPUS_LNG: %w", err)
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    driver,
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SeedPath:    Get("SEED_PATH", "data/seeds/events.json"),
		MapsAPIKey:  strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		Geocoder:    strings.ToLower(Get("GEOCODER", "google")),
		ORSKey:      strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    ttl,
		Campus:      domain.Coordinate{Lat: lat, Lng: lng},
	}

	if cfg.DBDriver == db.Postgres && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("load config: DATABASE_URL is required when DB_DRIVER=postgres")
	}
	if cfg.Geocoder != "google" && cfg.Geocoder != "ors" {
		return Config{}, fmt.Errorf("load config: unknown GEOCODER %q", cfg.Geocoder)
	}

	return cfg, nil
}
