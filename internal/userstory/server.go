package userstory

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskflow-labs/taskflow/internal/eventbus"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
	"github.com/taskflow-labs/taskflow/pkg/envelope"
)

type Server struct {
	repo     Repository
	eventBus *eventbus.Bus
}

func NewServer(repo Repository, eventBus *eventbus.Bus) *Server {
	return &Server{
		repo:     repo,
		eventBus: eventBus,
	}
}

// CreateRequest is the POST /user-stories body.
type CreateRequest struct {
	AsA                string   `json:"as_a"`
	IWant              string   `json:"i_want"`
	SoThat             string   `json:"so_that"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Priority           string   `json:"priority"`
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	r.Get("/{storyID}", s.handleGet)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stories, err := s.repo.List(ctx)
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}
	apierr.SetJSONResponse(ctx, envelope.OK(stories, "User stories retrieved successfully"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	story, err := s.repo.Get(ctx, chi.URLParam(r, "storyID"))
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}
	apierr.SetJSONResponse(ctx, envelope.OK(story, "User story retrieved successfully"))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.SetJSONError(ctx, apierr.NewError(apierr.InvalidArgument, "invalid request body", err))
		return
	}
	if req.AsA == "" || req.IWant == "" || req.SoThat == "" {
		apierr.SetNewJSONError(ctx, apierr.InvalidArgument, "as_a, i_want and so_that are required", nil)
		return
	}
	if req.Priority == "" {
		req.Priority = DefaultPriority
	}

	story := &UserStory{
		AsA:                req.AsA,
		IWant:              req.IWant,
		SoThat:             req.SoThat,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Priority:           req.Priority,
	}
	if err := s.repo.Create(ctx, story); err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeStoryCreated, story.ID, map[string]string{"priority": story.Priority})

	apierr.SetJSONCreated(ctx, envelope.OK(story, "User story created successfully"))
}
