package api

import (
	"encoding/json"
	"net/http"
)

type onboardingRequest struct {
	Completed bool            `json:"onboardingCompleted"`
	UserData  json.RawMessage `json:"userData"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	state, err := s.OnboardingService.GetOnboarding(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSaveOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.OnboardingService.SaveOnboarding(r.Context(), userFromContext(r.Context()), req.Completed, req.UserData)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
