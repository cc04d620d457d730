package app

import (
	"github.com/gorilla/mux"
	"github.com/multical/multical/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar management
	r.HandleFunc("/api/calendar", deps.CalendarHandler.CreateCalendar).Methods("POST")
	r.HandleFunc("/api/calendar/current", deps.CalendarHandler.GetCurrent).Methods("GET")
	r.HandleFunc("/api/calendar/current", deps.CalendarHandler.SetCurrent).Methods("PUT")
	r.HandleFunc("/api/calendar/{name}/name", deps.CalendarHandler.RenameCalendar).Methods("PUT")
	r.HandleFunc("/api/calendar/{name}/timezone", deps.CalendarHandler.SetTimezone).Methods("PUT")

	// Events
	r.HandleFunc("/api/calendar/{name}/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/{name}/event", deps.EventHandler.GetEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/{name}/export", deps.EventHandler.ExportICS).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Scoped edits on the current calendar
	r.HandleFunc("/api/calendar/current/event", deps.EventHandler.EditEvent).Methods("PATCH")
	r.HandleFunc("/api/calendar/current/events", deps.EventHandler.EditEvents).Queries("scope", "{scope}").Methods("PATCH")

	// Cross-calendar copying from the current calendar
	r.HandleFunc("/api/calendar/current/copy/event", deps.CalendarHandler.CopyEvent).Methods("POST")
	r.HandleFunc("/api/calendar/current/copy/range", deps.CalendarHandler.CopyRange).Methods("POST")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}
