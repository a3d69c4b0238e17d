// Package api is the thin HTTP shell over the transcript pipeline.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
)

// NewRouter provides a router with all the gateway routes. Authentication
// guards the processing endpoints only; health stays open.
func NewRouter(cfg *config.Config, h *Handlers, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(CORS)

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireAPIKey(cfg.APIKey))
		r.Post("/transcripts", h.SubmitTranscript)
		r.Post("/audio", h.SubmitAudio)
	})

	return r
}
