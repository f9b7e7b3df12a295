package repositories

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/db"
	"campus-activity-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQL-backed implementation of the UserRepository port.
// Emails are stored lower-cased and trimmed.
type SQLUserRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLUserRepository(conn *sql.DB, dialect db.Dialect) *SQLUserRepository {
	return &SQLUserRepository{DB: conn, Dialect: dialect}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *SQLUserRepository) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if s.DB == nil {
		return domain.User{}, errors.New("sql user repository: DB is nil")
	}

	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	countQuery := db.Rebind(s.Dialect, `SELECT COUNT(*) FROM users WHERE email = ?;`)
	if err := tx.QueryRowContext(ctx, countQuery, u.Email).Scan(&count); err != nil {
		return domain.User{}, fmt.Errorf("create user: lookup email: %w", err)
	}
	if count > 0 {
		return domain.User{}, fmt.Errorf("create user %q: %w", u.Email, domain.ErrEmailTaken)
	}

	insertQuery := db.Rebind(s.Dialect, `
	INSERT INTO users (id, email, password_hash, created_at)
	VALUES (?, ?, ?, ?);
	`)
	if _, err := tx.ExecContext(ctx, insertQuery, u.ID, u.Email, u.PasswordHash, formatTime(u.CreatedAt)); err != nil {
		return domain.User{}, fmt.Errorf("create user: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("create user: commit: %w", err)
	}

	return u, nil
}

func (s *SQLUserRepository) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if s.DB == nil {
		return domain.User{}, errors.New("sql user repository: DB is nil")
	}

	email = normalizeEmail(email)
	query := db.Rebind(s.Dialect, `SELECT`+userColumns+`
	FROM users
	WHERE email = ?;
	`)

	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("find user %q: %w", email, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user %q: %w", email, err)
	}
	return u, nil
}

func (s *SQLUserRepository) ListUsers(ctx context.Context) (_ []domain.User, err error) {
	defer obs.Time(ctx, "users.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql user repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT`+userColumns+`
	FROM users
	ORDER BY created_at, id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *SQLUserRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	if s.DB == nil {
		return domain.User{}, errors.New("sql user repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, `SELECT`+userColumns+`
	FROM users
	WHERE id = ?;
	`)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("get user id=%s: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user id=%s: %w", id, err)
	}
	return u, nil
}

func (s *SQLUserRepository) UpdateUser(ctx context.Context, u domain.User) (_ domain.User, err error) {
	defer obs.Time(ctx, "users.repo.Update")(&err)

	if s.DB == nil {
		return domain.User{}, errors.New("sql user repository: DB is nil")
	}
	u.Email = normalizeEmail(u.Email)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanUser(tx.QueryRowContext(ctx, db.Rebind(s.Dialect, `SELECT`+userColumns+`
	FROM users
	WHERE id = ?;
	`), u.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("update user id=%s: %w", u.ID, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update user id=%s: select: %w", u.ID, err)
	}

	var count int
	countQuery := db.Rebind(s.Dialect, `SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?;`)
	if err := tx.QueryRowContext(ctx, countQuery, u.Email, u.ID).Scan(&count); err != nil {
		return domain.User{}, fmt.Errorf("update user id=%s: lookup email: %w", u.ID, err)
	}
	if count > 0 {
		return domain.User{}, fmt.Errorf("update user %q: %w", u.Email, domain.ErrEmailTaken)
	}

	updateQuery := db.Rebind(s.Dialect, `UPDATE users SET email = ?, password_hash = ? WHERE id = ?;`)
	if _, err := tx.ExecContext(ctx, updateQuery, u.Email, u.PasswordHash, u.ID); err != nil {
		return domain.User{}, fmt.Errorf("update user id=%s: %w", u.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("update user id=%s: commit: %w", u.ID, err)
	}

	u.CreatedAt = current.CreatedAt
	return u, nil
}

func (s *SQLUserRepository) DeleteUser(ctx context.Context, id string) (_ domain.User, err error) {
	defer obs.Time(ctx, "users.repo.Delete")(&err)

	if s.DB == nil {
		return domain.User{}, errors.New("sql user repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("delete user: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	u, err := scanUser(tx.QueryRowContext(ctx, db.Rebind(s.Dialect, `SELECT`+userColumns+`
	FROM users
	WHERE id = ?;
	`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("delete user id=%s: %w", id, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("delete user id=%s: select: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, db.Rebind(s.Dialect, `DELETE FROM users WHERE id = ?;`), id); err != nil {
		return domain.User{}, fmt.Errorf("delete user id=%s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("delete user id=%s: commit: %w", id, err)
	}
	return u, nil
}

const userColumns = ` id, email, password_hash, created_at`

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u       domain.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created); err != nil {
		return domain.User{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	u.CreatedAt = t
	return u, nil
}
