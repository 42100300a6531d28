package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/starford/mindcare/internal/auth"
	"github.com/starford/mindcare/internal/metrics"
	"github.com/starford/mindcare/internal/thoughts"
)

// Options configures NewRouter.
type Options struct {
	Thoughts *thoughts.Service
	AI       Analyzer
	Store    Pinger

	// Verifier checks bearer tokens; nil disables authentication.
	Verifier *auth.Verifier
	// Metrics, if non-nil, instruments every request and serves /metrics.
	Metrics *metrics.Metrics
	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
}

// NewRouter creates the application router: health probes, metrics and the
// authenticated API under /api.
func NewRouter(opts Options) chi.Router {
	h := NewHandler(opts.Thoughts, opts.AI, opts.Store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.InstrumentHandler)
	}
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
	})

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Verifier))

		r.Get("/me", h.Me)

		// Thoughts CRUD.
		r.Get("/thoughts", h.ListThoughts)
		r.Post("/thoughts", h.CreateThought)
		r.Get("/thoughts/{id}", h.GetThought)
		r.Put("/thoughts/{id}", h.UpdateThought)
		r.Delete("/thoughts/{id}", h.DeleteThought)

		// AI helpers.
		r.Post("/ai/suggest", h.Suggest)
		r.Post("/ai/analyze-mood", h.AnalyzeMood)
	})

	return r
}
