package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/units/{unitID}", s.handleCatalogUnit)

		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Get("/progress", s.handleProgress)
			r.Delete("/progress", s.handleResetProgress)

			r.Route("/units/{unitID}", func(r chi.Router) {
				r.Get("/", s.handleUnitOverview)
				r.Post("/final-quiz", s.handleCompleteFinalQuiz)
				r.Post("/final-roleplay", s.handleCompleteFinalRoleplay)

				r.Route("/lessons/{lessonID}", func(r chi.Router) {
					r.Get("/next", s.handleNextLesson)
					r.Post("/complete", s.handleCompleteLesson)
					r.Post("/quiz", s.handleCompleteQuiz)
					r.Post("/roleplay", s.handleCompleteRoleplay)
					r.Post("/practice", s.handlePractice)
				})
			})

			r.Get("/goals", s.handleGoals)
			r.Put("/goals", s.handleSetGoals)
			r.Get("/onboarding", s.handleOnboarding)
			r.Put("/onboarding", s.handleSaveOnboarding)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminMiddleware)
			r.Post("/streaks/sweep", s.handleStreakSweep)
		})
	})

	return r
}
