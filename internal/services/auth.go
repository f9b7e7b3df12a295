package services

import (
	"campus-activity-service/internal/auth"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
)

// AuthService registers accounts and checks credentials. Tokens are only
// issued when a token signer is configured.
type AuthService struct {
	users  ports.UserRepository
	tokens *auth.Tokens
}

func NewAuthService(users ports.UserRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, &ValidationError{Msg: "Email and password are required"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("signup: %w", err)
	}

	u, err := s.users.CreateUser(ctx, domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		return domain.User{}, fmt.Errorf("signup: %w", err)
	}
	return u, nil
}

// Login verifies credentials. It returns domain.ErrUserNotFound for unknown
// emails and domain.ErrInvalidCredentials for a wrong password. The token
// is empty when no signer is configured.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.User{}, "", &ValidationError{Msg: "Email and password are required"}
	}

	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return domain.User{}, "", fmt.Errorf("login %s: %w", u.Email, domain.ErrInvalidCredentials)
	}

	if s.tokens == nil {
		return u, "", nil
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("login: %w", err)
	}
	return u, token, nil
}

// Authenticate validates a bearer token. With no signer configured every
// request is allowed.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	if s.tokens == nil {
		return nil, nil
	}
	if token == "" {
		return nil, errors.New("missing bearer token")
	}
	return s.tokens.Validate(token)
}

// Enforced reports whether mutations require a token.
func (s *AuthService) Enforced() bool {
	return s.tokens != nil
}
