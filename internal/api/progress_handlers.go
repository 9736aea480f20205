package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/linguaflash/internal/errors"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/models"
)

type completionRequest struct {
	Score   *int `json:"score"`
	Minutes int  `json:"minutes"`
}

type goalsRequest struct {
	DailyGoalMinutes int `json:"dailyGoalMinutes"`
	WeeklyGoalDays   int `json:"weeklyGoalDays"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.Tracker.Snapshot(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleResetProgress is the logout path: stored progress and onboarding go,
// and the identifying cookie is cleared.
func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userFromContext(ctx)

	if err := s.Tracker.Reset(ctx, userID); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.OnboardingService.DeleteOnboarding(ctx, userID); err != nil {
		logger.FromContext(ctx).Warn("failed to clear onboarding on reset: %v", err)
	}

	clearUserCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnitOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.Tracker.UnitOverview(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "unitID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// completion decodes the shared request body and renders the tracker result.
func (s *Server) completion(w http.ResponseWriter, r *http.Request, needScore bool, apply func(req completionRequest) (*models.CompletionResult, error)) {
	var req completionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if needScore && req.Score == nil {
		handleError(w, r, errors.NewValidationError("score", "is required"))
		return
	}

	res, err := apply(req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	s.completion(w, r, false, func(req completionRequest) (*models.CompletionResult, error) {
		return s.Tracker.CompleteLesson(r.Context(), userFromContext(r.Context()),
			chi.URLParam(r, "unitID"), chi.URLParam(r, "lessonID"), req.Minutes)
	})
}

func (s *Server) handleCompleteQuiz(w http.ResponseWriter, r *http.Request) {
	s.completion(w, r, true, func(req completionRequest) (*models.CompletionResult, error) {
		return s.Tracker.CompleteQuiz(r.Context(), userFromContext(r.Context()),
			chi.URLParam(r, "unitID"), chi.URLParam(r, "lessonID"), *req.Score, req.Minutes)
	})
}

func (s *Server) handleCompleteRoleplay(w http.ResponseWriter, r *http.Request) {
	s.completion(w, r, false, func(req completionRequest) (*models.CompletionResult, error) {
		return s.Tracker.CompleteRoleplay(r.Context(), userFromContext(r.Context()),
			chi.URLParam(r, "unitID"), chi.URLParam(r, "lessonID"), req.Minutes)
	})
}

func (s *Server) handleCompleteFinalQuiz(w http.ResponseWriter, r *http.Request) {
	s.completion(w, r, true, func(req completionRequest) (*models.CompletionResult, error) {
		return s.Tracker.CompleteFinalQuiz(r.Context(), userFromContext(r.Context()),
			chi.URLParam(r, "unitID"), *req.Score, req.Minutes)
	})
}

func (s *Server) handleCompleteFinalRoleplay(w http.ResponseWriter, r *http.Request) {
	s.completion(w, r, false, func(req completionRequest) (*models.CompletionResult, error) {
		return s.Tracker.CompleteFinalRoleplay(r.Context(), userFromContext(r.Context()),
			chi.URLParam(r, "unitID"), req.Minutes)
	})
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.Tracker.Goals(r.Context(), userFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleSetGoals(w http.ResponseWriter, r *http.Request) {
	var req goalsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	goals, err := s.Tracker.SetGoals(r.Context(), userFromContext(r.Context()), req.DailyGoalMinutes, req.WeeklyGoalDays)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}
