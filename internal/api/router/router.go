package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/tiptonco/probation-scheduler/internal/http/middleware"
	"github.com/tiptonco/probation-scheduler/internal/voice"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	VoiceHandler   *voice.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.VoiceHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Voice-gateway facing decision surface.
	r.Route("/voice", func(v chi.Router) {
		v.Post("/validate", cfg.VoiceHandler.Validate)
		v.Post("/next-slot", cfg.VoiceHandler.NextSlot)
		v.Post("/book", cfg.VoiceHandler.Book)
		v.Post("/reschedule", cfg.VoiceHandler.Reschedule)
		v.Post("/check-in", cfg.VoiceHandler.CheckIn)
		v.Get("/caller-context", cfg.VoiceHandler.CallerContext)
	})

	return r
}
