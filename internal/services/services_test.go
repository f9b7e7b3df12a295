package services

import (
	"campus-activity-service/internal/adapters/repositories"
	"campus-activity-service/internal/auth"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := repositories.InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func ptr[T any](v T) *T { return &v }

func TestEventServiceCreateValidates(t *testing.T) {
	svc := NewEventService(repositories.NewSQLEventRepository(newTestDB(t), db.SQLite))
	ctx := context.Background()

	_, err := svc.Create(ctx, EventPatch{Name: ptr("No type")})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("missing type err = %v, want ValidationError", err)
	}

	cat := domain.CategoryAll
	if _, err := svc.Create(ctx, EventPatch{Name: ptr("All"), Type: &cat}); !errors.As(err, &verr) {
		t.Fatalf("type all err = %v, want ValidationError", err)
	}

	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	music := domain.CategoryMusic
	_, err = svc.Create(ctx, EventPatch{
		Name:      ptr("Backwards"),
		Type:      &music,
		StartTime: &start,
		EndTime:   ptr(start.Add(-time.Hour)),
	})
	if !errors.As(err, &verr) {
		t.Fatalf("end before start err = %v, want ValidationError", err)
	}

	created, err := svc.Create(ctx, EventPatch{
		Name:      ptr("Jazz Night"),
		Type:      &music,
		Capacity:  ptr(50),
		StartTime: &start,
		EndTime:   ptr(start.Add(2 * time.Hour)),
		Geometry:  &domain.Coordinate{Lat: 33.95, Lng: -83.36},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("created event has no id")
	}
}

func TestEventServiceUpdateMerges(t *testing.T) {
	svc := NewEventService(repositories.NewSQLEventRepository(newTestDB(t), db.SQLite))
	ctx := context.Background()

	music := domain.CategoryMusic
	created, err := svc.Create(ctx, EventPatch{
		Name:        ptr("Jazz Night"),
		Description: ptr("Live quartet"),
		Type:        &music,
		Capacity:    ptr(40),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, EventPatch{Capacity: ptr(80)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Capacity != 80 || updated.Description != "Live quartet" || updated.Name != "Jazz Night" {
		t.Fatalf("updated = %+v", updated)
	}

	_, err = svc.Update(ctx, "missing", EventPatch{Capacity: ptr(1)})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("unknown id err = %v, want ErrEventNotFound", err)
	}

	var verr *ValidationError
	if _, err := svc.Delete(ctx, ""); !errors.As(err, &verr) {
		t.Fatalf("empty id err = %v, want ValidationError", err)
	}
}

func TestAuthServiceFlow(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	svc := NewAuthService(repositories.NewSQLUserRepository(newTestDB(t), db.SQLite), tokens)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "Student@UGA.edu", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "student@uga.edu", "pw2"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate signup err = %v, want ErrEmailTaken", err)
	}

	if _, _, err := svc.Login(ctx, "nobody@uga.edu", "pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "student@uga.edu", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}

	u, token, err := svc.Login(ctx, "student@uga.edu", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("claims user = %q, want %q", claims.UserID, u.ID)
	}

	var verr *ValidationError
	if _, err := svc.Signup(ctx, "", "pw"); !errors.As(err, &verr) {
		t.Fatalf("missing email err = %v", err)
	}
}
