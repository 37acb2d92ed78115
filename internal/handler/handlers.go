package handler

import (
	"github.com/NEOCHOCAPIC/gastronomia/internal/server"
	"github.com/NEOCHOCAPIC/gastronomia/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router setup
// passes one object around instead of many.
type Handlers struct {
	Health      *HealthHandler
	Application *ApplicationHandler
	Contact     *ContactHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		Application: NewApplicationHandler(s, services.Application),
		Contact:     NewContactHandler(s, services.Contact),
	}
}
