package repositories

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"context"
	"errors"
	"testing"
)

func TestSQLUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLUserRepository(newTestDB(t), db.SQLite)

	u, err := repo.CreateUser(ctx, domain.User{Email: " Student@UGA.edu ", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "student@uga.edu" {
		t.Fatalf("email = %q, want normalized", u.Email)
	}

	if _, err := repo.CreateUser(ctx, domain.User{Email: "student@uga.edu", PasswordHash: "other"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate err = %v, want ErrEmailTaken", err)
	}

	found, err := repo.FindUserByEmail(ctx, "STUDENT@uga.edu")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != u.ID || found.PasswordHash != "hash" {
		t.Fatalf("found = %+v, want %+v", found, u)
	}

	if _, err := repo.FindUserByEmail(ctx, "nobody@uga.edu"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("missing err = %v, want ErrUserNotFound", err)
	}
}

func TestSQLUserRepositoryManage(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLUserRepository(newTestDB(t), db.SQLite)

	a, _ := repo.CreateUser(ctx, domain.User{Email: "a@uga.edu", PasswordHash: "ha"})
	b, _ := repo.CreateUser(ctx, domain.User{Email: "b@uga.edu", PasswordHash: "hb"})

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}

	a.Email = "B@uga.edu"
	if _, err := repo.UpdateUser(ctx, a); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("update to taken email err = %v, want ErrEmailTaken", err)
	}

	a.Email = "c@uga.edu"
	a.PasswordHash = "hc"
	updated, err := repo.UpdateUser(ctx, a)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedAt.IsZero() {
		t.Fatal("update lost created_at")
	}
	got, err := repo.GetUser(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "c@uga.edu" || got.PasswordHash != "hc" {
		t.Fatalf("stored = %+v", got)
	}

	if _, err := repo.UpdateUser(ctx, domain.User{ID: "missing", Email: "d@uga.edu"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("update missing err = %v, want ErrUserNotFound", err)
	}

	deleted, err := repo.DeleteUser(ctx, b.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Email != "b@uga.edu" {
		t.Fatalf("deleted = %+v", deleted)
	}
	if _, err := repo.GetUser(ctx, b.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("get deleted err = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.DeleteUser(ctx, b.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete err = %v, want ErrUserNotFound", err)
	}
}
