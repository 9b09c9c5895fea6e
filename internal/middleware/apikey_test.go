package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/apikey-dashboard/internal/models"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/dimitrije/apikey-dashboard/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAPIKeyAuthApp(lookup APIKeyLookup, tracker UsageTracker) http.Handler {
	app := drift.New()
	app.Use(APIKeyAuth(lookup, tracker, "sk_"))
	app.Get("/protected", func(c *drift.Context) {
		ownerID, _ := GetOwnerID(c)
		key := GetAPIKey(c)
		_ = c.JSON(http.StatusOK, map[string]string{
			"owner": ownerID.String(),
			"key":   key.ID.String(),
		})
	})
	return app
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	lookup := new(testutil.MockAPIKeyService)
	tracker := new(testutil.MockUsageTracker)
	app := newAPIKeyAuthApp(lookup, tracker)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
	tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
}

func TestAPIKeyAuth_InvalidFormat(t *testing.T) {
	lookup := new(testutil.MockAPIKeyService)
	tracker := new(testutil.MockUsageTracker)
	app := newAPIKeyAuthApp(lookup, tracker)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no bearer", "Token abc", "invalid authorization header format"},
		{"only bearer", "Bearer", "invalid authorization header format"},
		{"wrong prefix", "Bearer nik_" + services.GenerateAPIKey("")[0:64], "invalid api key format"},
		{"short key", "Bearer sk_abc", "invalid api key format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	lookup.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything)
}

func TestAPIKeyAuth_UnknownKey(t *testing.T) {
	lookup := new(testutil.MockAPIKeyService)
	tracker := new(testutil.MockUsageTracker)
	app := newAPIKeyAuthApp(lookup, tracker)

	key := services.GenerateAPIKey("sk_")
	lookup.On("GetByKey", mock.Anything, key).Return(nil, services.ErrInvalidAPIKey)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid api key")
	tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	lookup.AssertExpectations(t)
}

func TestAPIKeyAuth_LookupFault(t *testing.T) {
	lookup := new(testutil.MockAPIKeyService)
	tracker := new(testutil.MockUsageTracker)
	app := newAPIKeyAuthApp(lookup, tracker)

	key := services.GenerateAPIKey("sk_")
	lookup.On("GetByKey", mock.Anything, key).Return(nil, errors.New("connection reset"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to verify API key"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection reset")
	tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
}

func TestAPIKeyAuth_ValidKeyTracksUsage(t *testing.T) {
	lookup := new(testutil.MockAPIKeyService)
	tracker := new(testutil.MockUsageTracker)
	app := newAPIKeyAuthApp(lookup, tracker)

	key := services.GenerateAPIKey("sk_")
	record := &models.APIKey{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Name:      "CI",
		Key:       key,
		CreatedAt: time.Now(),
	}
	lookup.On("GetByKey", mock.Anything, key).Return(record, nil)
	tracker.On("Track", record.ID, record.OwnerID).Return()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+key)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), record.OwnerID.String())
	assert.Contains(t, rec.Body.String(), record.ID.String())
	lookup.AssertExpectations(t)
	tracker.AssertExpectations(t)
}
