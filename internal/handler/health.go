package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NEOCHOCAPIC/gastronomia/internal/middleware"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
)

// HealthHandler exposes a "system" endpoint that uptime monitors and load
// balancers can use to verify the service is alive and able to deliver.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns system health status.
//
// The only dependency is the email provider, and it is not called: the check
// reports whether its credential and destination inbox are configured.
//
// It returns:
//   - 200 OK when the provider is configured
//   - 503 Service Unavailable otherwise
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	emailCheck := map[string]interface{}{"status": "healthy"}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks": map[string]interface{}{
			"email": emailCheck,
		},
	}

	if missing := h.server.Config.Email.MissingSettings(); len(missing) > 0 {
		emailCheck["status"] = "unhealthy"
		emailCheck["missing"] = missing
		response["status"] = "unhealthy"

		logger.Warn().
			Strs("missing", missing).
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type": "email",
					"operation":  "health_check",
					"error_type": "email_not_configured",
				},
			)
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
