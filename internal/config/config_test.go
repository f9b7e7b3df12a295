package config

import (
	"campus-activity-service/internal/platform/db"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "GEOCODER", "TOKEN_TTL", "CAMPUS_LAT", "CAMPUS_LNG", "GOOGLE_MAPS_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DBDriver != db.SQLite {
		t.Errorf("driver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.MapsAPIKey != "" {
		t.Errorf("maps key = %q, want empty", cfg.MapsAPIKey)
	}
}

func TestLoadRejectsPostgresWithoutURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadRejectsBadGeocoder(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GEOCODER", "mapquest")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown geocoder")
	}
}
