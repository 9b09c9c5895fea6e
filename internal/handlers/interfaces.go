package handlers

import (
	"context"

	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/google/uuid"
)

// APIKeyServiceInterface defines the methods used by handlers from APIKeyService
type APIKeyServiceInterface interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.APIKey, error)
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.APIKey, error)
	Create(ctx context.Context, ownerID uuid.UUID, name, key string) (*models.APIKey, error)
	Rename(ctx context.Context, id, ownerID uuid.UUID, name string) (*models.APIKey, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (*models.APIKeyStats, error)
}

// Pinger is satisfied by *database.DB
type Pinger interface {
	Ping(ctx context.Context) error
}
