package registry

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/multical/multical/internal/rest"
	"github.com/multical/multical/pkg/calendar"
)

// Handler exposes calendar management and cross-calendar copying over HTTP.
// It holds no decision logic: requests are decoded, passed to the registry
// and the outcome rendered.
type Handler struct {
	registry *Registry
}

func NewHandler(r *Registry) *Handler {
	return &Handler{registry: r}
}

func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.registry.CreateCalendar(dto.Name, dto.Timezone); err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, dto)
}

func (h *Handler) RenameCalendar(w http.ResponseWriter, r *http.Request) {
	oldName := mux.Vars(r)["name"]
	var body struct {
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.registry.RenameCalendar(oldName, body.NewName); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetTimezone(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.registry.SetZone(name, dto.Timezone); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	cal, err := h.registry.CurrentCalendar()
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CalendarDTO{
		Name:     h.registry.CurrentCalendarName(),
		Timezone: cal.ZoneID(),
	})
}

func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.registry.SetCurrent(dto.Name); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CopyEvent(w http.ResponseWriter, r *http.Request) {
	var req CopyEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	sourceStart, err := calendar.ParseDateTime(req.SourceStart)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	newStart, err := calendar.ParseDateTime(req.NewStart)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.registry.CopyOne(req.Subject, sourceStart, req.TargetCalendar, newStart); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CopyRange(w http.ResponseWriter, r *http.Request) {
	var req CopyRangeRequest
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
	newStartDate, err := calendar.ParseDate(req.NewStartDate)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.registry.CopyRange(start, end, req.TargetCalendar, newStartDate); err != nil {
		rest.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
