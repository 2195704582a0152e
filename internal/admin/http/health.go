package http

import (
	"net/http"
	"time"

	"github.com/vantasec/adminauth/internal/admin/store"
	"github.com/vantasec/adminauth/pkg/adminsdk"
	"github.com/vantasec/adminauth/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning basic service health, uptime, and version.
//	@Description	Always returns 200 OK while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, adminsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database connection alongside uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	adminsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	adminsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &adminsdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, adminsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
