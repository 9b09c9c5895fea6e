package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/dimitrije/apikey-dashboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

const msgVerifyFailed = "Failed to verify API key"

// APIKeyLookup resolves a presented key to its record.
type APIKeyLookup interface {
	GetByKey(ctx context.Context, key string) (*models.APIKey, error)
}

// UsageTracker receives a usage event for every successfully authenticated request.
type UsageTracker interface {
	Track(keyID, ownerID uuid.UUID)
}

// APIKeyAuth authenticates requests carrying "Authorization: Bearer <key>". The
// key's owner becomes the request owner and usage is recorded best-effort.
func APIKeyAuth(lookup APIKeyLookup, tracker UsageTracker, prefix string) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if !services.IsAPIKeyFormat(prefix, token) {
			unauthorized(c, "invalid api key format")
			return
		}

		apiKey, err := lookup.GetByKey(c.Request.Context(), token)
		if errors.Is(err, services.ErrInvalidAPIKey) {
			unauthorized(c, "invalid api key")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("api key lookup failed")
			_ = c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgVerifyFailed})
			c.Abort()
			return
		}

		tracker.Track(apiKey.ID, apiKey.OwnerID)

		c.Set(OwnerIDKey, apiKey.OwnerID)
		c.Set(APIKeyKey, apiKey)
		c.Next()
	}
}

// GetAPIKey returns the key that authenticated the request, if any.
func GetAPIKey(c *drift.Context) *models.APIKey {
	if v, ok := c.Get(APIKeyKey); ok {
		if k, ok := v.(*models.APIKey); ok {
			return k
		}
	}
	return nil
}

func unauthorized(c *drift.Context, msg string) {
	_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg})
	c.Abort()
}
