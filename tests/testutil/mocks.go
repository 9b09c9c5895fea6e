package testutil

import (
	"context"

	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAPIKeyService mocks the APIKeyService
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) List(ctx context.Context, ownerID uuid.UUID) ([]models.APIKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.APIKey, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) Create(ctx context.Context, ownerID uuid.UUID, name, key string) (*models.APIKey, error) {
	args := m.Called(ctx, ownerID, name, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) Rename(ctx context.Context, id, ownerID uuid.UUID, name string) (*models.APIKey, error) {
	args := m.Called(ctx, id, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockAPIKeyService) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIKeyService) Stats(ctx context.Context, ownerID uuid.UUID) (*models.APIKeyStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKeyStats), args.Error(1)
}

// MockUsageTracker mocks the UsageTracker
type MockUsageTracker struct {
	mock.Mock
}

func (m *MockUsageTracker) Track(keyID, ownerID uuid.UUID) {
	m.Called(keyID, ownerID)
}

// MockPinger mocks the database health check
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
