package services

import (
	"campus-activity-service/internal/auth"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserPatch carries account fields for create and update. Nil fields are
// left unchanged on update.
type UserPatch struct {
	Email    *string
	Password *string
}

type userRules struct {
	Email string `validate:"required,email,max=254"`
}

// UserService manages accounts. Passwords are bcrypt-hashed before they
// reach the store.
type UserService struct {
	users    ports.UserRepository
	validate *validator.Validate
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	if err := checkUserID(id); err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, p UserPatch) (domain.User, error) {
	if p.Email == nil || p.Password == nil || strings.TrimSpace(*p.Email) == "" || *p.Password == "" {
		return domain.User{}, &ValidationError{Msg: "Email and password are required"}
	}

	u := domain.User{Email: strings.TrimSpace(*p.Email)}
	if err := s.check(u); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(*p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	u.PasswordHash = hash

	created, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Update loads the account, applies the patch and stores it. An empty
// password in the patch is rejected rather than cleared.
func (s *UserService) Update(ctx context.Context, id string, p UserPatch) (domain.User, error) {
	if err := checkUserID(id); err != nil {
		return domain.User{}, err
	}

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if err := s.check(u); err != nil {
		return domain.User{}, err
	}
	if p.Password != nil {
		if *p.Password == "" {
			return domain.User{}, &ValidationError{Msg: "Password must not be empty"}
		}
		if u.PasswordHash, err = auth.HashPassword(*p.Password); err != nil {
			return domain.User{}, fmt.Errorf("update user: %w", err)
		}
	}

	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (domain.User, error) {
	if err := checkUserID(id); err != nil {
		return domain.User{}, err
	}
	u, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

func (s *UserService) check(u domain.User) error {
	err := s.validate.Struct(userRules{Email: u.Email})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Msg: "A valid email is required"}
	}
	return fmt.Errorf("validate user: %w", err)
}

func checkUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("user id %q: %w", id, domain.ErrInvalidUserID)
	}
	return nil
}
