package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticketalert/internal/app/tracking"
	"ticketalert/internal/store"
)

type trackRequest struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Email     string `json:"email"`
}

type trackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleTrack registers a resale tracking subscription.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.tracking.Track(r.Context(), req.EventID, req.EventName, req.Email); err != nil {
		switch {
		case errors.Is(err, tracking.ErrMissingFields),
			errors.Is(err, tracking.ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, store.ErrAlreadyTracked):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Du følger allerede dette arrangementet"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Kunne ikke lagre sporing"})
		}
		return
	}

	writeJSON(w, http.StatusOK, trackResponse{
		Success: true,
		Message: "Du vil nå motta varsel når billetter blir tilgjengelige",
	})
}
