package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ddrmaster1000/garmin-workout/internal/garmin"
	"github.com/go-chi/chi/v5"
)

// Converter is the conversion capability the server exposes. Satisfied by
// *convert.Converter; tests inject a stub.
type Converter interface {
	Convert(ctx context.Context, rawText string, sport garmin.Sport) (*garmin.Workout, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	conv           Converter
	log            *slog.Logger
	apiKey         string
	convertTimeout time.Duration
	router         chi.Router
}

// New creates a new Server with all routes configured. convertTimeout bounds
// each model round-trip so a stalled dependency cannot block a request
// forever.
func New(conv Converter, apiKey string, convertTimeout time.Duration, log *slog.Logger) *Server {
	s := &Server{
		conv:           conv,
		log:            log,
		apiKey:         apiKey,
		convertTimeout: convertTimeout,
		router:         chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/sports", s.handleSports)

	// Conversion costs a model invocation per request, so it sits behind the
	// API key even on a tailnet.
	s.router.Route("/api/v1/convert", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleConvert)
	})
}
