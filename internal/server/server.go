// Package server wires the HTTP surface: the drift app serving /api and the
// prometheus endpoint, wrapped in request logging and instrumentation.
package server

import (
	"net/http"

	"github.com/dimitrije/apikey-dashboard/internal/config"
	"github.com/dimitrije/apikey-dashboard/internal/handlers"
	"github.com/dimitrije/apikey-dashboard/internal/middleware"
	"github.com/dimitrije/apikey-dashboard/internal/openapi"
	"github.com/dimitrije/apikey-dashboard/internal/telemetry"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// KeyStore is everything the HTTP surface needs from the Key Store.
type KeyStore interface {
	handlers.APIKeyServiceInterface
	middleware.APIKeyLookup
}

type Deps struct {
	Keys  KeyStore
	Usage middleware.UsageTracker
	DB    handlers.Pinger
}

// New returns the root handler. /metrics is served outside the drift app so
// scrapes never pass through the owner middleware.
func New(cfg *config.Config, deps Deps) http.Handler {
	app := drift.New()
	// Request logging is done by middleware.RequestLogger in every environment.
	app.SetMode(drift.ReleaseMode)

	app.Use(driftmw.Recovery())
	app.Use(driftmw.CORSWithConfig(driftmw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(driftmw.BodyParser())

	apiKeyHandler := handlers.NewAPIKeyHandler(deps.Keys, cfg.APIKeyPrefix)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	openAPIHandler := handlers.NewOpenAPIHandler(openapi.Document("/", cfg.APIKeyPrefix))

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)
	api.Get("/openapi.json", openAPIHandler.Get)

	verified := api.Group("/auth")
	verified.Use(middleware.APIKeyAuth(deps.Keys, deps.Usage, cfg.APIKeyPrefix))
	verified.Get("/verify", apiKeyHandler.Verify)

	owned := api.Group("")
	owned.Use(middleware.Owner(cfg.DefaultOwnerID))

	owned.Get("/keys", apiKeyHandler.List)
	owned.Post("/keys", apiKeyHandler.Create)
	owned.Get("/keys/:id", apiKeyHandler.Get)
	owned.Put("/keys/:id", apiKeyHandler.Update)
	owned.Delete("/keys/:id", apiKeyHandler.Delete)
	owned.Get("/stats", apiKeyHandler.Stats)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", app)

	return middleware.RequestLogger(telemetry.Instrument(mux))
}
