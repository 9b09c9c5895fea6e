package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/apikey-dashboard/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresDB    = "apikeys_test"
)

// TestDB is a migrated api_keys database running in its own postgres container.
type TestDB struct {
	DB  *database.DB
	URL string
}

// SetupTestDB starts postgres, connects through database.New and applies the
// migrations. The container is terminated when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err, "resolve postgres endpoint")

	url := fmt.Sprintf("postgres://test:test@%s/%s?sslmode=disable", endpoint, postgresDB)

	db, err := database.New(ctx, url)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx), "migrate test database")

	return &TestDB{DB: db, URL: url}
}
