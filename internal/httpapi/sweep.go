package httpapi

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/notify"
)

type sweepResponse struct {
	Message  string          `json:"message"`
	Checked  int             `json:"checked"`
	Notified int             `json:"notified"`
	Results  []notify.Result `json:"results"`
}

// handleSweep runs one notification sweep. When a sweep secret is
// configured the caller must present it as a bearer token.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if s.opts.SweepSecret != "" {
		if r.Header.Get("Authorization") != "Bearer "+s.opts.SweepSecret {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
	}

	report, err := s.sweeper.Run(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("sweep failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Feil ved sjekking av arrangementer"})
		return
	}

	results := report.Results
	if results == nil {
		results = []notify.Result{}
	}
	writeJSON(w, http.StatusOK, sweepResponse{
		Message:  fmt.Sprintf("Sjekket %d arrangementer", report.Checked),
		Checked:  report.Checked,
		Notified: report.Notified,
		Results:  results,
	})
}
