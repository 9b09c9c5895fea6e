package integration

import (
	"net/http"
	"testing"

	"github.com/dimitrije/apikey-dashboard/internal/config"
	"github.com/dimitrije/apikey-dashboard/internal/server"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/dimitrije/apikey-dashboard/pkg/dto"
	"github.com/dimitrije/apikey-dashboard/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTracker struct{}

func (noopTracker) Track(uuid.UUID, uuid.UUID) {}

func newHTTPClient(t *testing.T, tdb *testutil.TestDB, owner uuid.UUID) *testutil.HTTPTestClient {
	t.Helper()
	cfg := &config.Config{
		Env:            "test",
		DatabaseURL:    tdb.URL,
		DefaultOwnerID: owner,
		APIKeyPrefix:   services.DefaultAPIKeyPrefix,
		CORSOrigins:    []string{"*"},
	}
	handler := server.New(cfg, server.Deps{
		Keys:  services.NewAPIKeyService(tdb.DB),
		Usage: noopTracker{},
		DB:    tdb.DB,
	})
	return testutil.NewHTTPTestClient(t, handler)
}

func TestAPIKeys_Integration_HTTPLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newHTTPClient(t, tdb, uuid.New())

	rec := client.POST("/api/keys", map[string]string{"name": "Prod"}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var created dto.APIKeyResponse
	testutil.ParseJSON(t, rec, &created)
	assert.Equal(t, "Prod", created.Name)
	assert.Regexp(t, `^sk_[0-9a-f]{64}$`, created.Key)

	rec = client.PUT("/api/keys/"+created.ID.String(), map[string]string{"name": "Production"}, nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertJSON(t, rec, map[string]interface{}{"name": "Production", "key": created.Key})

	rec = client.GET("/api/keys", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var listed []dto.APIKeyResponse
	testutil.ParseJSON(t, rec, &listed)
	require.Len(t, listed, 1)

	rec = client.DELETE("/api/keys/"+created.ID.String(), nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertJSON(t, rec, map[string]interface{}{"message": "API key deleted successfully"})

	rec = client.GET("/api/keys/"+created.ID.String(), nil)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "API key not found"})
}

func TestAPIKeys_Integration_ForeignOwnerRename(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	foreign := fixtures.CreateAPIKey(t, uuid.New(), testutil.WithName("Theirs"))

	client := newHTTPClient(t, tdb, uuid.New())

	rec := client.PUT("/api/keys/"+foreign.ID.String(), map[string]string{"name": "Mine"}, nil)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertJSON(t, rec, map[string]interface{}{"error": "API key not found"})
}

func TestAPIKeys_Integration_Verify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	apiKey := fixtures.CreateAPIKey(t, uuid.New())

	client := newHTTPClient(t, tdb, uuid.New())

	rec := client.GET("/api/auth/verify", map[string]string{"Authorization": testutil.AuthHeader(apiKey.Key)})
	testutil.AssertStatus(t, rec, http.StatusOK)

	var verified dto.VerifyAPIKeyResponse
	testutil.ParseJSON(t, rec, &verified)
	assert.Equal(t, apiKey.ID, verified.ID)
	assert.Equal(t, dto.MaskKey(apiKey.Key), verified.Key)

	rec = client.GET("/api/auth/verify", map[string]string{"Authorization": testutil.AuthHeader(services.GenerateAPIKey("sk_"))})
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}
