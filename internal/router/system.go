package router

import (
	"github.com/labstack/echo/v4"

	"github.com/NEOCHOCAPIC/gastronomia/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the forms.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by uptime monitors).
	r.GET("/status", h.Health.CheckHealth)
}
