// Package demo serves the endpoints that exist to illustrate the
// envelope convention itself: API info, health, the envelope-vs-direct
// contrast, and canonical error shapes for each status family.
package demo

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow-labs/taskflow/pkg/apierr"
	"github.com/taskflow-labs/taskflow/pkg/envelope"
)

type Server struct{}

func NewServer() *Server {
	return &Server{}
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Routes registers the enveloped demo endpoints. HandleDirect is mounted
// separately, outside the envelope middleware.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/response-patterns/envelope", s.handleEnvelopePattern)
	r.Get("/error/400", s.handleError400)
	r.Get("/error/404", s.handleError404)
	r.Get("/error/500", s.handleError500)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONResponse(r.Context(), envelope.OK(map[string]any{
		"message": "Welcome to the taskflow API",
		"version": envelope.Version,
		"endpoints": map[string]string{
			"health":       "/health",
			"tasks":        "/tasks",
			"user_stories": "/user-stories",
			"events":       "/events",
		},
	}, "API is running successfully"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONResponse(r.Context(), envelope.OK(HealthStatus{
		Status:    "healthy",
		Timestamp: envelope.Now(),
		Version:   envelope.Version,
	}, "Service is healthy"))
}

func (s *Server) handleEnvelopePattern(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONResponse(r.Context(), envelope.OK(map[string]any{
		"example": "This is wrapped in an envelope",
		"benefits": []string{
			"Consistent response structure",
			"Metadata included (timestamp, version)",
			"Clear success/failure indication",
			"Extensible for future needs",
		},
	}, "Envelope pattern demonstration"))
}

// HandleDirect returns an intentionally unwrapped body to contrast with
// the envelope everywhere else. The only endpoint without an envelope.
func (s *Server) HandleDirect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"example": "This is a direct response",
		"drawbacks": []string{
			"No consistent structure",
			"No metadata",
			"Harder to handle errors uniformly",
			"Less extensible",
		},
	})
}

// The /error handlers below are not tied to any real fault; they show
// the canonical envelope for each status family.

func (s *Server) handleError400(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONError(r.Context(),
		apierr.NewError(apierr.InvalidArgument, "Bad request - invalid parameters", nil))
}

func (s *Server) handleError404(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONError(r.Context(),
		apierr.NewError(apierr.NotFound, "Resource not found", nil))
}

func (s *Server) handleError500(w http.ResponseWriter, r *http.Request) {
	apierr.SetJSONError(r.Context(),
		apierr.NewError(apierr.Internal, "Internal server error", nil))
}
