package repositoryimpl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/taskflow-labs/taskflow/internal/userstory"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
)

const idPrefix = "story_"

// MemoryRepository keeps user stories in process memory, insertion
// ordered, with monotonic counter IDs (story_%03d).
type MemoryRepository struct {
	mu      sync.RWMutex
	stories map[string]*userstory.UserStory
	order   []string
	seq     int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		stories: make(map[string]*userstory.UserStory),
	}
}

func (r *MemoryRepository) Create(_ context.Context, s *userstory.UserStory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.seq++
		s.ID = fmt.Sprintf("%s%03d", idPrefix, r.seq)
	} else {
		if _, ok := r.stories[s.ID]; ok {
			return apierr.NewError(apierr.AlreadyExists, fmt.Sprintf("User story with ID %s already exists", s.ID), nil).WithWire("STORY_ALREADY_EXISTS")
		}
		r.advanceSeq(s.ID)
	}
	cp := copyStory(s)
	r.stories[s.ID] = cp
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*userstory.UserStory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, notFound(id)
	}
	return copyStory(s), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*userstory.UserStory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*userstory.UserStory, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, copyStory(r.stories[id]))
	}
	return all, nil
}

// Load replaces the repository contents, resetting the ID counter past
// the largest numeric suffix seen.
func (r *MemoryRepository) Load(records []*userstory.UserStory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories = make(map[string]*userstory.UserStory, len(records))
	r.order = r.order[:0]
	r.seq = 0
	for _, s := range records {
		if _, ok := r.stories[s.ID]; ok {
			continue
		}
		r.stories[s.ID] = copyStory(s)
		r.order = append(r.order, s.ID)
		r.advanceSeq(s.ID)
	}
}

func (r *MemoryRepository) advanceSeq(id string) {
	suffix, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return
	}
	if n > r.seq {
		r.seq = n
	}
}

func copyStory(s *userstory.UserStory) *userstory.UserStory {
	cp := *s
	cp.AcceptanceCriteria = append([]string(nil), s.AcceptanceCriteria...)
	return &cp
}

func notFound(id string) *apierr.Error {
	return apierr.NewError(apierr.NotFound, fmt.Sprintf("User story with ID %s not found", id), nil).WithWire("STORY_NOT_FOUND")
}
