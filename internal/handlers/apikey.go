package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/apikey-dashboard/internal/middleware"
	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/dimitrije/apikey-dashboard/internal/telemetry"
	"github.com/dimitrije/apikey-dashboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

const (
	msgNameRequired  = "Name is required"
	msgNameTooShort  = "Name must be at least 2 characters"
	msgNameTooLong   = "Name must be less than 50 characters"
	msgNotFound      = "API key not found"
	msgDeleted       = "API key deleted successfully"
	msgNotAuthorized = "not authenticated"
	msgFetchFailed   = "Failed to fetch API key"
	msgListFailed    = "Failed to fetch API keys"
	msgCreateFailed  = "Failed to create API key"
	msgUpdateFailed  = "Failed to update API key"
	msgDeleteFailed  = "Failed to delete API key"
	msgStatsFailed   = "Failed to fetch API key stats"
)

type APIKeyHandler struct {
	apiKeyService APIKeyServiceInterface
	generateKey   func() string
}

func NewAPIKeyHandler(apiKeyService APIKeyServiceInterface, keyPrefix string) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService: apiKeyService,
		generateKey: func() string {
			return services.GenerateAPIKey(keyPrefix)
		},
	}
}

func (h *APIKeyHandler) List(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	keys, err := h.apiKeyService.List(c.Request.Context(), ownerID)
	if err != nil {
		storageFault(c, "list", err, msgListFailed)
		return
	}

	response := make([]dto.APIKeyResponse, 0, len(keys))
	for i := range keys {
		response = append(response, toAPIKeyResponse(&keys[i]))
	}

	telemetry.RecordOperation("list", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, response)
}

func (h *APIKeyHandler) Get(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	id, ok := parseKeyID(c, "get")
	if !ok {
		return
	}

	apiKey, err := h.apiKeyService.GetByID(c.Request.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrAPIKeyNotFound) {
			notFound(c, "get")
			return
		}
		storageFault(c, "get", err, msgFetchFailed)
		return
	}

	telemetry.RecordOperation("get", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, toAPIKeyResponse(apiKey))
}

func (h *APIKeyHandler) Create(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	name, ok := bindName(c, "create")
	if !ok {
		return
	}

	apiKey, err := h.apiKeyService.Create(c.Request.Context(), ownerID, name, h.generateKey())
	if err != nil {
		storageFault(c, "create", err, msgCreateFailed)
		return
	}

	telemetry.RecordOperation("create", telemetry.ResultOK)
	_ = c.JSON(http.StatusCreated, toAPIKeyResponse(apiKey))
}

// Update renames a key. A key owned by someone else is reported exactly like a missing one.
func (h *APIKeyHandler) Update(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	name, ok := bindName(c, "rename")
	if !ok {
		return
	}

	id, ok := parseKeyID(c, "rename")
	if !ok {
		return
	}

	apiKey, err := h.apiKeyService.Rename(c.Request.Context(), id, ownerID, name)
	if err != nil {
		if errors.Is(err, services.ErrAPIKeyNotFound) {
			notFound(c, "rename")
			return
		}
		storageFault(c, "rename", err, msgUpdateFailed)
		return
	}

	telemetry.RecordOperation("rename", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, toAPIKeyResponse(apiKey))
}

func (h *APIKeyHandler) Delete(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	id, ok := parseKeyID(c, "delete")
	if !ok {
		return
	}

	deleted, err := h.apiKeyService.Delete(c.Request.Context(), id, ownerID)
	if err != nil {
		storageFault(c, "delete", err, msgDeleteFailed)
		return
	}
	if !deleted {
		notFound(c, "delete")
		return
	}

	telemetry.RecordOperation("delete", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: msgDeleted})
}

func (h *APIKeyHandler) Stats(c *drift.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	stats, err := h.apiKeyService.Stats(c.Request.Context(), ownerID)
	if err != nil {
		storageFault(c, "stats", err, msgStatsFailed)
		return
	}

	telemetry.RecordOperation("stats", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, dto.APIKeyStatsResponse{
		TotalKeys:  stats.TotalKeys,
		ActiveKeys: stats.ActiveKeys,
		UnusedKeys: stats.UnusedKeys,
		RecentKeys: stats.RecentKeys,
		TotalUsage: stats.TotalUsage,
		LastUsed:   dto.FormatOptionalTimestamp(stats.LastUsedAt),
	})
}

// Verify echoes the key that authenticated the request, masked.
func (h *APIKeyHandler) Verify(c *drift.Context) {
	apiKey := middleware.GetAPIKey(c)
	if apiKey == nil {
		respondError(c, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	telemetry.RecordOperation("verify", telemetry.ResultOK)
	_ = c.JSON(http.StatusOK, dto.VerifyAPIKeyResponse{
		ID:         apiKey.ID,
		Name:       apiKey.Name,
		Key:        dto.MaskKey(apiKey.Key),
		UsageCount: apiKey.UsageCount,
		CreatedAt:  dto.FormatTimestamp(apiKey.CreatedAt),
		LastUsed:   dto.FormatOptionalTimestamp(apiKey.LastUsedAt),
	})
}

func toAPIKeyResponse(k *models.APIKey) dto.APIKeyResponse {
	return dto.APIKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		Key:       k.Key,
		CreatedAt: dto.FormatTimestamp(k.CreatedAt),
		LastUsed:  dto.FormatOptionalTimestamp(k.LastUsedAt),
	}
}

// bindName decodes {"name": "..."} and validates it before anything reaches storage.
func bindName(c *drift.Context, operation string) (string, bool) {
	var req dto.APIKeyRequest
	if err := c.BindJSON(&req); err != nil {
		telemetry.RecordOperation(operation, telemetry.ResultInvalid)
		respondError(c, http.StatusBadRequest, msgNameRequired)
		return "", false
	}

	name, err := services.ValidateName(req.Name)
	if err != nil {
		telemetry.RecordOperation(operation, telemetry.ResultInvalid)
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return "", false
	}
	return name, true
}

// parseKeyID treats a malformed id as a missing record: no such key can exist.
func parseKeyID(c *drift.Context, operation string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		notFound(c, operation)
		return uuid.Nil, false
	}
	return id, true
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNameTooShort):
		return msgNameTooShort
	case errors.Is(err, services.ErrNameTooLong):
		return msgNameTooLong
	default:
		return msgNameRequired
	}
}

func notFound(c *drift.Context, operation string) {
	telemetry.RecordOperation(operation, telemetry.ResultNotFound)
	respondError(c, http.StatusNotFound, msgNotFound)
}

func storageFault(c *drift.Context, operation string, err error, msg string) {
	telemetry.RecordOperation(operation, telemetry.ResultError)
	log.Error().Err(err).Str("operation", operation).Msg("api key store failed")
	respondError(c, http.StatusInternalServerError, msg)
}

func respondError(c *drift.Context, status int, msg string) {
	_ = c.JSON(status, dto.ErrorResponse{Error: msg})
}
