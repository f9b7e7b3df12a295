package cache

import (
	"campus-activity-service/internal/adapters/repositories"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"context"
	"testing"
)

func TestSQLGeocodeCache(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	ctx := context.Background()
	c := NewSQLGeocodeCache(conn, db.SQLite)

	err = c.PutMany(ctx, map[string]domain.Coordinate{
		"Athens, GA":  {Lat: 33.95, Lng: -83.36},
		"Tate Center": {Lat: 33.9509, Lng: -83.3746},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	// Overwrite keeps one row per address.
	if err := c.PutMany(ctx, map[string]domain.Coordinate{"Athens, GA": {Lat: 33.96, Lng: -83.37}}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"Athens, GA", "Athens, GA", "Unknown", " "})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d hits, want 1: %+v", len(got), got)
	}
	if got["Athens, GA"] != (domain.Coordinate{Lat: 33.96, Lng: -83.37}) {
		t.Fatalf("Athens, GA = %+v, want overwritten value", got["Athens, GA"])
	}
}
