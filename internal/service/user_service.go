package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkanishkZ/pds/internal/auth"
	"github.com/anandkanishkZ/pds/internal/cache"
	apperrors "github.com/anandkanishkZ/pds/internal/errors"
	"github.com/anandkanishkZ/pds/internal/model"
	"github.com/anandkanishkZ/pds/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput is an admin-created user. Role and Status default to
// user/active when empty.
type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	Role         model.Role
	Status       model.Status
	AdminNotes   string
	BlockedUntil *time.Time
}

// UpdateUserInput carries the fields of a PATCH. Nil pointers mean "leave
// unchanged". HasBlockedUntil distinguishes an absent blockedUntil from an
// explicit null, which while blocked means "make the block indefinite".
type UpdateUserInput struct {
	Role            *model.Role
	Status          *model.Status
	AdminNotes      *string
	BlockedUntil    *time.Time
	HasBlockedUntil bool
}

// UserService owns the account status lifecycle and user administration.
// Every transition into or out of blocked, and every change of BlockedUntil
// while blocked, appends exactly one audit row in the same transaction as
// the user row update.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput, actingUserID uuid.UUID) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListBlockAudits(ctx context.Context, userID uuid.UUID) ([]model.BlockAuditEntry, error)
}

type userService struct {
	users  repository.UserRepository
	audits repository.BlockAuditRepository
	hasher *auth.PasswordHasher
	cache  *cache.Client
}

// NewUserService builds a UserService with repositories, hasher and cache.
func NewUserService(users repository.UserRepository, audits repository.BlockAuditRepository, hasher *auth.PasswordHasher, cache *cache.Client) UserService {
	return &userService{
		users:  users,
		audits: audits,
		hasher: hasher,
		cache:  cache,
	}
}

func userCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// CreateUser creates a user with admin-chosen role and status. Creating
// directly as blocked sets BlockedAt; there is no prior state, so no audit
// row is written.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email existence: %w", err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	status := in.Status
	if status == "" {
		status = model.StatusActive
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         role,
		Status:       status,
		AdminNotes:   in.AdminNotes,
	}
	if status == model.StatusBlocked {
		now := time.Now()
		user.BlockedAt = &now
		user.BlockedUntil = in.BlockedUntil
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.users.List(ctx, filter)
}

// UpdateUser applies an administrative update. The user row and any audit
// row are written in one transaction: either both land or neither does.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput, actingUserID uuid.UUID) (*model.User, error) {
	var updated *model.User
	err := s.users.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, audits repository.BlockAuditRepository) error {
		user, err := users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		if in.Role != nil {
			user.Role = *in.Role
		}
		reason := ""
		if in.AdminNotes != nil {
			user.AdminNotes = *in.AdminNotes
			reason = *in.AdminNotes
		}

		newStatus := user.Status
		if in.Status != nil {
			newStatus = *in.Status
		}

		var audit *model.BlockAudit
		switch {
		case newStatus == model.StatusBlocked && user.Status != model.StatusBlocked:
			// transition into blocked
			prev := user.BlockedUntil
			if user.BlockedAt == nil {
				now := time.Now()
				user.BlockedAt = &now
			}
			user.Status = model.StatusBlocked
			if in.HasBlockedUntil {
				user.BlockedUntil = in.BlockedUntil
			}
			audit = &model.BlockAudit{
				UserID:               user.ID,
				Action:               model.AuditActionBlock,
				Reason:               reason,
				PreviousBlockedUntil: prev,
				NewBlockedUntil:      user.BlockedUntil,
				ActingUserID:         actingUserID,
			}

		case newStatus == model.StatusBlocked && user.Status == model.StatusBlocked && in.HasBlockedUntil:
			// already blocked, deadline changed
			prev := user.BlockedUntil
			user.BlockedUntil = in.BlockedUntil
			audit = &model.BlockAudit{
				UserID:               user.ID,
				Action:               model.AuditActionExtend,
				Reason:               reason,
				PreviousBlockedUntil: prev,
				NewBlockedUntil:      user.BlockedUntil,
				ActingUserID:         actingUserID,
			}

		case user.Status == model.StatusBlocked && newStatus != model.StatusBlocked:
			// transition out of blocked
			prev := user.BlockedUntil
			user.BlockedAt = nil
			user.BlockedUntil = nil
			user.Status = newStatus
			audit = &model.BlockAudit{
				UserID:               user.ID,
				Action:               model.AuditActionUnblock,
				Reason:               reason,
				PreviousBlockedUntil: prev,
				NewBlockedUntil:      nil,
				ActingUserID:         actingUserID,
			}

		default:
			// neither side involves blocked; plain update, no audit row
			user.Status = newStatus
		}

		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if audit != nil {
			if err := audits.Create(ctx, audit); err != nil {
				return fmt.Errorf("append block audit: %w", err)
			}
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) ListBlockAudits(ctx context.Context, userID uuid.UUID) ([]model.BlockAuditEntry, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return s.audits.ListForUser(ctx, userID)
}
