package telemetry

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
)

const noRoute = "<no-route>"

var staticRoutes = map[string]bool{
	"/api/keys":         true,
	"/api/stats":        true,
	"/api/health":       true,
	"/api/auth/verify":  true,
	"/api/openapi.json": true,
	"/metrics":          true,
}

// Instrument wraps next and records request count and latency for every request.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		path := RouteLabel(r.URL.Path)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(m.Code)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(m.Duration.Seconds())
	})
}

// RouteLabel maps a request path onto the route template it was served by.
func RouteLabel(path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if staticRoutes[path] {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/api/keys/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/api/keys/:id"
	}
	return noRoute
}
