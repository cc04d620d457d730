package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/multical/multical/internal/config"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, the calendar registry, router, and server
// lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (registry, renderer, handlers...)
	deps := BuildDependencies()

	// The registry starts with one calendar in use, so the API is usable
	// without an explicit create call.
	if err := deps.Registry.CreateCalendar(cfg.Calendar.DefaultName, cfg.Calendar.DefaultZone); err != nil {
		return nil, err
	}
	if err := deps.Registry.SetCurrent(cfg.Calendar.DefaultName); err != nil {
		return nil, err
	}

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
