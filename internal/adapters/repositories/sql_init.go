package repositories

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Initialize the database schema. Statements are valid for both SQLite and Postgres.
func InitSchema(conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createEventsQuery := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		type TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		attendees INTEGER,
		created_at TEXT NOT NULL
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_events_created_at
	ON events(created_at);
	`

	statements := []string{
		createEventsQuery,
		createUsersQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type EventSeed struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Attendees   *int      `json:"attendees"`
}

// Populate the database with event data from a JSON file.
// Seeding is idempotent: events whose id already exists are left untouched.
func SeedFromJSON(conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed events: read %q: %w", jsonPath, err)
	}

	var data []EventSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed events: parse json: %w", err)
	}

	rows := make([]domain.Event, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed events: item at index %d: name cannot be empty", i+1)
		}

		category := domain.Category(item.Type)
		if !category.Valid() || category == domain.CategoryAll {
			return fmt.Errorf("seed events: item at index %d: invalid type %q", i+1, item.Type)
		}

		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewString()
		}

		e := domain.Event{
			ID:          id,
			Name:        name,
			Description: item.Description,
			Location:    strings.TrimSpace(item.Location),
			Type:        category,
			Capacity:    item.Capacity,
			StartTime:   item.StartTime,
			EndTime:     item.EndTime,
			Attendees:   item.Attendees,
			Source:      domain.SourcePersisted,
		}
		if item.Lat != nil && item.Lng != nil {
			e.Geometry = &domain.Coordinate{Lat: *item.Lat, Lng: *item.Lng}
		}
		rows = append(rows, e)
	}

	ctx := context.Background()
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed events: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := db.Rebind(dialect, `
	INSERT INTO events (
		id, name, description, location, type, capacity,
		start_time, end_time, lat, lng, attendees, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO NOTHING;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed events: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range rows {
		if _, err := stmt.ExecContext(ctx, eventArgs(e, now)...); err != nil {
			return fmt.Errorf("seed events: insert id=%s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed events: commit tx: %w", err)
	}

	return nil
}
