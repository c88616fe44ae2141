package task

import (
	"encoding/json"
	"net/http"
	"time"

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

// CreateRequest is the POST /tasks body.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserStory   string `json:"user_story,omitempty"`
}

// UpdateRequest is the PUT /tasks/{id} body. Only fields present in the
// JSON overwrite the stored record; unknown keys are ignored. ID and
// creation time are immutable.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	UserStory   *string `json:"user_story"`
}

type deleteResult struct {
	Message string `json:"message"`
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	r.Get("/{taskID}", s.handleGet)
	r.Put("/{taskID}", s.handleUpdate)
	r.Delete("/{taskID}", s.handleDelete)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := s.repo.List(ctx)
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}
	apierr.SetJSONResponse(ctx, envelope.OK(tasks, "Tasks retrieved successfully"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.repo.Get(ctx, chi.URLParam(r, "taskID"))
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}
	apierr.SetJSONResponse(ctx, envelope.OK(t, "Task retrieved successfully"))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.SetJSONError(ctx, apierr.NewError(apierr.InvalidArgument, "invalid request body", err))
		return
	}
	if req.Title == "" || req.Description == "" {
		apierr.SetNewJSONError(ctx, apierr.InvalidArgument, "title and description are required", nil)
		return
	}

	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
		UserStory:   req.UserStory,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskCreated, t.ID, map[string]string{"status": t.Status})

	apierr.SetJSONCreated(ctx, envelope.OK(t, "Task created successfully"))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.SetJSONError(ctx, apierr.NewError(apierr.InvalidArgument, "invalid request body", err))
		return
	}

	t, err := s.repo.Get(ctx, chi.URLParam(r, "taskID"))
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.UserStory != nil {
		t.UserStory = *req.UserStory
	}
	if err := s.repo.Update(ctx, t); err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskUpdated, t.ID, map[string]string{"status": t.Status})

	apierr.SetJSONResponse(ctx, envelope.OK(t, "Task updated successfully"))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "taskID")
	if err := s.repo.Delete(ctx, id); err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskDeleted, id, nil)

	apierr.SetJSONResponse(ctx, envelope.OK(deleteResult{Message: "Task deleted successfully"}, "Task deleted successfully"))
}
