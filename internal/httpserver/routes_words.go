// internal/httpserver/routes_words.go
//
// Dictionary maintenance endpoints. Loading is idempotent, so re-posting the
// same list is safe.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) mountWordRoutes() {
	s.r.Route("/words", func(r chi.Router) {
		// Loading a big list can outlive the usual deadline; give it a minute.
		r.Use(chimw.Timeout(time.Minute))
		r.Use(s.requireAuth())
		r.Post("/load", s.handleLoadWords)
		r.Get("/count", s.handleWordCount)
	})
}

// handleLoadWords ingests a newline-separated word list from the request body.
func (s *Server) handleLoadWords(w http.ResponseWriter, r *http.Request) {
	n, err := s.dict.Load(r.Context(), r.Body)
	if err != nil {
		log.Error().Err(err).Msg("load words")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Int("words", n).Msg("word list loaded")
	writeJSON(w, map[string]int{"loaded": n})
}

// handleWordCount reports the dictionary size, mainly for health checks.
func (s *Server) handleWordCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.dict.Count(r.Context())
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int{"count": n})
}
