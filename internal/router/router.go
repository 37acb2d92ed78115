// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the form endpoints and system
// endpoints to their handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NEOCHOCAPIC/gastronomia/internal/handler"
	"github.com/NEOCHOCAPIC/gastronomia/internal/middleware"
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
)

// apiPrefix is where the forms were first mounted as serverless functions.
// Existing frontends still post there, so every form route is served both at
// the root and under it.
const apiPrefix = "/api"

// NewRouter builds the echo instance serving the whole API.
//
// Middleware order matters: the request id and New Relic transaction must
// exist before the request logger is built, and CORS runs before anything
// that can fail so error responses carry the headers too.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)

	bodyLimit := middlewares.Global.BodyLimit()
	registerFormRoutes(router.Group(""), h, bodyLimit)
	registerFormRoutes(router.Group(apiPrefix), h, bodyLimit)

	return router
}

// registerFormRoutes mounts the form submission endpoints on g.
//
// The application form is read as a stream and reports an oversized résumé
// as a validation error, so bodyLimit only wraps the contact endpoint.
func registerFormRoutes(g *echo.Group, h *handler.Handlers, bodyLimit echo.MiddlewareFunc) {
	g.POST("/enviar-candidatura", handler.Handle(
		h.Application.Handler,
		h.Application.SubmitApplication,
		http.StatusOK,
		handler.NewApplicationRequest,
	))

	g.POST("/enviar-contacto", handler.Handle(
		h.Contact.Handler,
		h.Contact.SubmitContact,
		http.StatusOK,
		handler.NewContactRequest,
	), bodyLimit)
}
