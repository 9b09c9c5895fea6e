package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/apikey-dashboard/internal/database"
	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrInvalidAPIKey  = errors.New("invalid api key")
)

const apiKeyColumns = `id, owner_id, name, key, usage_count, created_at, last_used_at`

// APIKeyService is the key store. Every query is scoped by owner_id, so a record
// owned by someone else looks exactly like a missing one.
type APIKeyService struct {
	db *database.DB
}

func NewAPIKeyService(db *database.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// List returns the owner's keys, most recently created first.
func (s *APIKeyService) List(ctx context.Context, ownerID uuid.UUID) ([]models.APIKey, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+apiKeyColumns+`
		FROM api_keys
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []models.APIKey{}
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(
			&k.ID, &k.OwnerID, &k.Name, &k.Key,
			&k.UsageCount, &k.CreatedAt, &k.LastUsedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *APIKeyService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.APIKey, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+apiKeyColumns+`
		FROM api_keys
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	return scanAPIKey(row)
}

// GetByKey resolves a presented key value to its record regardless of owner.
func (s *APIKeyService) GetByKey(ctx context.Context, key string) (*models.APIKey, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+apiKeyColumns+`
		FROM api_keys
		WHERE key = $1
	`, key)
	apiKey, err := scanAPIKey(row)
	if errors.Is(err, ErrAPIKeyNotFound) {
		return nil, ErrInvalidAPIKey
	}
	return apiKey, err
}

func (s *APIKeyService) Create(ctx context.Context, ownerID uuid.UUID, name, key string) (*models.APIKey, error) {
	row := s.db.Pool.QueryRow(ctx, `
		INSERT INTO api_keys (owner_id, name, key)
		VALUES ($1, $2, $3)
		RETURNING `+apiKeyColumns,
		ownerID, name, key)
	apiKey, err := scanAPIKey(row)
	if err != nil {
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	return apiKey, nil
}

// Rename changes only the name. ErrAPIKeyNotFound is returned when no row matches id and owner.
func (s *APIKeyService) Rename(ctx context.Context, id, ownerID uuid.UUID, name string) (*models.APIKey, error) {
	row := s.db.Pool.QueryRow(ctx, `
		UPDATE api_keys SET name = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING `+apiKeyColumns,
		id, ownerID, name)
	return scanAPIKey(row)
}

// Delete removes the record permanently and reports whether a row was removed.
func (s *APIKeyService) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM api_keys
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// IncrementUsage bumps the usage counter. Callers go through UsageTracker, never the request path.
func (s *APIKeyService) IncrementUsage(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE api_keys
		SET usage_count = usage_count + 1, last_used_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// Stats computes the dashboard totals in one pass over the owner's keys.
func (s *APIKeyService) Stats(ctx context.Context, ownerID uuid.UUID) (*models.APIKeyStats, error) {
	var stats models.APIKeyStats
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE last_used_at IS NOT NULL),
			COUNT(*) FILTER (WHERE last_used_at IS NULL),
			COUNT(*) FILTER (WHERE created_at > NOW() - make_interval(secs => $2)),
			COALESCE(SUM(usage_count), 0)::BIGINT,
			MAX(last_used_at)
		FROM api_keys
		WHERE owner_id = $1
	`, ownerID, models.RecentKeyWindow.Seconds()).Scan(
		&stats.TotalKeys, &stats.ActiveKeys, &stats.UnusedKeys, &stats.RecentKeys,
		&stats.TotalUsage, &stats.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	err := row.Scan(
		&k.ID, &k.OwnerID, &k.Name, &k.Key,
		&k.UsageCount, &k.CreatedAt, &k.LastUsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}
