package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"units": s.CatalogService.ListUnits(r.Context())})
}

func (s *Server) handleCatalogUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := s.CatalogService.GetUnit(r.Context(), chi.URLParam(r, "unitID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (s *Server) handleNextLesson(w http.ResponseWriter, r *http.Request) {
	next, err := s.CatalogService.NextLesson(r.Context(), chi.URLParam(r, "unitID"), chi.URLParam(r, "lessonID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nextLesson": next})
}

type practiceRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.CatalogService.ScorePractice(r.Context(), chi.URLParam(r, "unitID"), chi.URLParam(r, "lessonID"), req.Transcript)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
