package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/anandkanishkZ/pds/internal/auth"
	apperrors "github.com/anandkanishkZ/pds/internal/errors"
	"github.com/anandkanishkZ/pds/internal/model"
	"github.com/anandkanishkZ/pds/internal/repository"
)

// AuthService handles registration and credential-based session issuance.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	jwt    *auth.JWTService
	// bootstrapAdmin grants the admin role to self-registered accounts,
	// preserving the single-admin bootstrap of the original deployment.
	bootstrapAdmin bool
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, jwt *auth.JWTService, bootstrapAdmin bool) AuthService {
	return &authService{
		users:          users,
		hasher:         hasher,
		jwt:            jwt,
		bootstrapAdmin: bootstrapAdmin,
	}
}

// Register creates a new active user with a hashed password. The email must
// not collide with an existing one, compared case-insensitively.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if s.bootstrapAdmin {
		role = model.RoleAdmin
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		Status:       model.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and mints a bearer token. A blocked account is
// rejected before the password comparison; a stale BlockedUntil does not
// lift the block, it only removes the countdown from the response.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if user.Status == model.StatusBlocked {
		return "", nil, &apperrors.AccountBlockedError{
			RemainingBlockSeconds: user.RemainingBlockSeconds(time.Now()),
		}
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}
