package api

import (
	"net/http"

	"github.com/vytor/linguaflash/internal/errors"
)

// handleStreakSweep queues a decay job for every stored user right away.
func (s *Server) handleStreakSweep(w http.ResponseWriter, r *http.Request) {
	if s.Sweeper == nil {
		handleError(w, r, errors.NewNotFoundError("sweeper", "streaks"))
		return
	}

	queued, err := s.Sweeper.Sweep(r.Context())
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}
