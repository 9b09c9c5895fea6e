package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/apikey-dashboard/internal/database"
	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateAPIKey inserts a key for ownerID with a generated name and key.
func (f *Fixtures) CreateAPIKey(t *testing.T, ownerID uuid.UUID, opts ...APIKeyOption) *models.APIKey {
	t.Helper()
	f.counter++

	apiKey := &models.APIKey{
		OwnerID: ownerID,
		Name:    fmt.Sprintf("Test Key %d", f.counter),
		Key:     services.GenerateAPIKey(services.DefaultAPIKeyPrefix),
	}

	for _, opt := range opts {
		opt(apiKey)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO api_keys (owner_id, name, key, usage_count, last_used_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, apiKey.OwnerID, apiKey.Name, apiKey.Key, apiKey.UsageCount, apiKey.LastUsedAt).Scan(
		&apiKey.ID, &apiKey.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create api key: %v", err)
	}

	return apiKey
}

// APIKeyOption configures a test API key
type APIKeyOption func(*models.APIKey)

// WithName sets the key's name
func WithName(name string) APIKeyOption {
	return func(k *models.APIKey) {
		k.Name = name
	}
}

// WithUsage marks the key as used count times, last at lastUsed
func WithUsage(count int64, lastUsed time.Time) APIKeyOption {
	return func(k *models.APIKey) {
		k.UsageCount = count
		k.LastUsedAt = &lastUsed
	}
}
