package ports

import (
	"campus-activity-service/internal/domain"
	"context"
)

// Port: account storage used by signup, credential checks and user management.
type UserRepository interface {
	// Store a user. Returns domain.ErrEmailTaken when the email is registered.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	// Returns domain.ErrUserNotFound when no account matches.
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	// Overwrites email and password hash. Returns domain.ErrUserNotFound or
	// domain.ErrEmailTaken when the email belongs to another account.
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)
	// Removes the user and returns it as it was stored.
	DeleteUser(ctx context.Context, id string) (domain.User, error)
}
