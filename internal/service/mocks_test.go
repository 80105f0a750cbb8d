package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/anandkanishkZ/pds/internal/model"
	"github.com/anandkanishkZ/pds/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
// WithTransaction runs the callback against the same mocks, so expectations
// set on the outer repository also cover writes made inside a transaction.
type MockUserRepository struct {
	mock.Mock
	Audits *MockBlockAuditRepository
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, users repository.UserRepository, audits repository.BlockAuditRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m, m.Audits)
}

// MockBlockAuditRepository is a mock implementation of
// repository.BlockAuditRepository.
type MockBlockAuditRepository struct {
	mock.Mock
}

func (m *MockBlockAuditRepository) Create(ctx context.Context, audit *model.BlockAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockBlockAuditRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BlockAuditEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BlockAuditEntry), args.Error(1)
}
