package app

import (
	"github.com/multical/multical/internal/utils"
	"github.com/multical/multical/pkg/ical"
	"github.com/multical/multical/pkg/registry"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Registry *registry.Registry

	Renderer *ical.RendererImpl

	CalendarHandler *registry.Handler
	EventHandler    *registry.EventHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies() *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Registry = registry.New()
	deps.Renderer = ical.NewRenderer(deps.Clock)

	deps.CalendarHandler = registry.NewHandler(deps.Registry)
	deps.EventHandler = registry.NewEventHandler(deps.Registry, deps.Renderer)

	return deps
}
