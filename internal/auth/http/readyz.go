package http

import (
	"net/http"
	"time"

	"github.com/agoradata/agora-auth/internal/auth/store"
	"github.com/agoradata/agora-auth/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It verifies database connectivity
// and reports 503 with a degraded status when a dependency is unhealthy.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, healthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
