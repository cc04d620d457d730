package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/multical/multical/pkg/calendar"
	"github.com/multical/multical/pkg/event"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError translates a core error into an HTTP response: conflicts map to
// 409, invalid arguments to 400, missing calendars and occurrences to 404,
// anything else to 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calendar.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, event.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, calendar.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()}); encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

// WriteJSON renders a successful JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
