package registry

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/multical/multical/internal/rest"
	"github.com/multical/multical/pkg/calendar"
	"github.com/multical/multical/pkg/event"
	"github.com/multical/multical/pkg/ical"
)

// EventHandler exposes event creation, range queries, scoped edits and
// iCalendar export for the calendars held by a registry.
type EventHandler struct {
	registry *Registry
	renderer ical.Renderer
}

func NewEventHandler(r *Registry, renderer ical.Renderer) *EventHandler {
	return &EventHandler{registry: r, renderer: renderer}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ev, err := eventFromDTO(dto)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.registry.AddEvent(name, ev); err != nil {
		rest.WriteError(w, err)
		return
	}
	occurrences := ev.Occurrences()
	dtos := make([]EventDTO, 0, len(occurrences))
	for _, o := range occurrences {
		dtos = append(dtos, occurrenceToDTO(o))
	}
	rest.WriteJSON(w, http.StatusCreated, dtos)
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	occurrences, err := h.queryRange(name, r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	dtos := make([]EventDTO, 0, len(occurrences))
	for _, o := range occurrences {
		dtos = append(dtos, occurrenceToDTO(o))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *EventHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	occurrences, err := h.queryRange(name, r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	body, err := h.renderer.Render(occurrences)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *EventHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	var req EditEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	start, err := calendar.ParseDateTime(req.Start)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	end, err := calendar.ParseDateTime(req.End)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.registry.EditEvent(req.Property, req.Subject, start, end, req.NewValue); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) EditEvents(w http.ResponseWriter, r *http.Request) {
	scope, err := calendar.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	var req EditEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	start, err := calendar.ParseDateTime(req.Start)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.registry.EditEvents(req.Property, req.Subject, start, scope, req.NewValue); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) queryRange(name string, r *http.Request) ([]event.Occurrence, error) {
	from, err := calendar.ParseDateTime(r.URL.Query().Get("from"))
	if err != nil {
		return nil, err
	}
	to, err := calendar.ParseDateTime(r.URL.Query().Get("to"))
	if err != nil {
		return nil, err
	}
	return h.registry.Query(name, from, to)
}
