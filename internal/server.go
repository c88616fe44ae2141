package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taskflow-labs/taskflow/internal/analytics"
	"github.com/taskflow-labs/taskflow/internal/config"
	"github.com/taskflow-labs/taskflow/internal/demo"
	"github.com/taskflow-labs/taskflow/internal/event"
	"github.com/taskflow-labs/taskflow/internal/task"
	"github.com/taskflow-labs/taskflow/internal/userstory"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
	"github.com/taskflow-labs/taskflow/pkg/hlog"
)

type Server struct {
	server          *http.Server
	env             *config.Env
	demoServer      *demo.Server
	taskServer      *task.Server
	storyServer     *userstory.Server
	eventServer     *event.Server
	analyticsServer *analytics.Server
}

func NewServer(
	env *config.Env,
	demoServer *demo.Server,
	taskServer *task.Server,
	storyServer *userstory.Server,
	eventServer *event.Server,
	analyticsServer *analytics.Server,
) *Server {
	return &Server{
		env:             env,
		demoServer:      demoServer,
		taskServer:      taskServer,
		storyServer:     storyServer,
		eventServer:     eventServer,
		analyticsServer: analyticsServer,
	}
}

// Handler assembles the full router. Exposed separately from
// ListenAndServe so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.SlogChiMiddleware())

	// Enveloped surface: every response here is wrapped by the
	// middleware, success and failure alike.
	r.Group(func(r chi.Router) {
		r.Use(apierr.NewEnvelopeChiMiddleware())
		s.demoServer.Routes(r)
		r.Route("/tasks", func(r chi.Router) {
			s.taskServer.Routes(r)
			r.Post("/batch", s.analyticsServer.HandleBatchUpdate)
		})
		r.Route("/user-stories", s.storyServer.Routes)
		r.Get("/analytics/teams/{teamID}/performance", s.analyticsServer.HandlePerformance)
	})

	// Raw surface: the intentionally unwrapped contrast endpoint and
	// the streaming endpoints, which write their own bodies.
	r.Get("/response-patterns/direct", s.demoServer.HandleDirect)
	r.Get("/events", s.eventServer.HandleSubscribe)
	r.Get("/analytics/teams/{teamID}/updates", s.analyticsServer.HandleStreamUpdates)
	r.Post("/analytics/tasks/{taskID}/collaborate", s.analyticsServer.HandleCollaborate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteError(r.Context(), w, apierr.NewError(apierr.NotFound, "not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteError(r.Context(), w, apierr.NewError(apierr.InvalidArgument, "method not allowed", nil).WithWire("METHOD_NOT_ALLOWED"))
	})

	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// ListenAndServe starts the HTTP server. The provided context becomes
// the base context for all incoming requests, so cancelling it (on
// shutdown signal) also cancels the SSE and duplex stream contexts.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     h2c.NewHandler(s.Handler(), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
