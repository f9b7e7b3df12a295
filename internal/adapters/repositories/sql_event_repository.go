package repositories

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"campus-activity-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQL-backed implementation of the EventRepository port.
type SQLEventRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLEventRepository(conn *sql.DB, dialect db.Dialect) *SQLEventRepository {
	return &SQLEventRepository{DB: conn, Dialect: dialect}
}

const eventColumns = `
		id,
		name,
		description,
		location,
		type,
		capacity,
		start_time,
		end_time,
		lat,
		lng,
		attendees`

// Return all events stored in the database, oldest first.
func (s *SQLEventRepository) ListEvents(ctx context.Context) (_ []domain.Event, err error) {
	defer obs.Time(ctx, "events.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql event repository: DB is nil")
	}

	query := `SELECT` + eventColumns + `
	FROM events
	ORDER BY created_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: query events table: %w", err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0, 64)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list events: scan row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: row iteration: %w", err)
	}

	return events, nil
}

func (s *SQLEventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	if s.DB == nil {
		return domain.Event{}, errors.New("sql event repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, `SELECT`+eventColumns+`
	FROM events
	WHERE id = ?;
	`)
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("get event id=%s: %w", id, domain.ErrEventNotFound)
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event id=%s: %w", id, err)
	}

	return e, nil
}

// Store a new event. A fresh UUID is assigned when e.ID is empty.
func (s *SQLEventRepository) CreateEvent(ctx context.Context, e domain.Event) (_ domain.Event, err error) {
	defer obs.Time(ctx, "events.repo.Create")(&err)

	if s.DB == nil {
		return domain.Event{}, errors.New("sql event repository: DB is nil")
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Source = domain.SourcePersisted

	query := db.Rebind(s.Dialect, `
	INSERT INTO events (`+eventColumns+`,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if _, err := s.DB.ExecContext(ctx, query, eventArgs(e, time.Now().UTC())...); err != nil {
		return domain.Event{}, fmt.Errorf("create event: insert: %w", err)
	}

	return e, nil
}

func (s *SQLEventRepository) UpdateEvent(ctx context.Context, e domain.Event) (_ domain.Event, err error) {
	defer obs.Time(ctx, "events.repo.Update")(&err)

	if s.DB == nil {
		return domain.Event{}, errors.New("sql event repository: DB is nil")
	}

	lat, lng := nullCoordinate(e.Geometry)
	query := db.Rebind(s.Dialect, `
	UPDATE events
	SET name = ?,
		description = ?,
		location = ?,
		type = ?,
		capacity = ?,
		start_time = ?,
		end_time = ?,
		lat = ?,
		lng = ?,
		attendees = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, query,
		e.Name,
		e.Description,
		e.Location,
		string(e.Type),
		e.Capacity,
		formatTime(e.StartTime),
		formatTime(e.EndTime),
		lat,
		lng,
		nullInt(e.Attendees),
		e.ID,
	)
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event id=%s: %w", e.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.Event{}, fmt.Errorf("update event id=%s: rows affected: %w", e.ID, err)
	}
	if n == 0 {
		return domain.Event{}, fmt.Errorf("update event id=%s: %w", e.ID, domain.ErrEventNotFound)
	}

	e.Source = domain.SourcePersisted
	return e, nil
}

func (s *SQLEventRepository) DeleteEvent(ctx context.Context, id string) (_ domain.Event, err error) {
	defer obs.Time(ctx, "events.repo.Delete")(&err)

	if s.DB == nil {
		return domain.Event{}, errors.New("sql event repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Event{}, fmt.Errorf("delete event: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	selectQuery := db.Rebind(s.Dialect, `SELECT`+eventColumns+`
	FROM events
	WHERE id = ?;
	`)
	e, err := scanEvent(tx.QueryRowContext(ctx, selectQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("delete event id=%s: %w", id, domain.ErrEventNotFound)
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("delete event id=%s: select: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(s.Dialect, `DELETE FROM events WHERE id = ?;`), id); err != nil {
		return domain.Event{}, fmt.Errorf("delete event id=%s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Event{}, fmt.Errorf("delete event id=%s: commit: %w", id, err)
	}

	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		e          domain.Event
		category   string
		start, end string
		lat, lng   sql.NullFloat64
		attendees  sql.NullInt64
	)

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.Location,
		&category,
		&e.Capacity,
		&start,
		&end,
		&lat,
		&lng,
		&attendees,
	)
	if err != nil {
		return domain.Event{}, err
	}

	e.Type = domain.Category(category)
	e.Source = domain.SourcePersisted

	if e.StartTime, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return domain.Event{}, fmt.Errorf("parse start_time %q: %w", start, err)
	}
	if e.EndTime, err = time.Parse(time.RFC3339Nano, end); err != nil {
		return domain.Event{}, fmt.Errorf("parse end_time %q: %w", end, err)
	}

	if lat.Valid && lng.Valid {
		e.Geometry = &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
	}
	if attendees.Valid {
		n := int(attendees.Int64)
		e.Attendees = &n
	}

	return e, nil
}

// eventArgs returns insert arguments in eventColumns order followed by created_at.
func eventArgs(e domain.Event, createdAt time.Time) []any {
	lat, lng := nullCoordinate(e.Geometry)
	return []any{
		e.ID,
		e.Name,
		e.Description,
		e.Location,
		string(e.Type),
		e.Capacity,
		formatTime(e.StartTime),
		formatTime(e.EndTime),
		lat,
		lng,
		nullInt(e.Attendees),
		formatTime(createdAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullCoordinate(c *domain.Coordinate) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
