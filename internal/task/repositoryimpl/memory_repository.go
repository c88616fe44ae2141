package repositoryimpl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/taskflow-labs/taskflow/internal/task"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
)

const idPrefix = "task_"

// MemoryRepository keeps tasks in process memory. IDs come from a
// monotonic counter that never decrements, so a delete followed by a
// create cannot reuse an ID. List returns insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*task.Task
	order []string
	seq   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]*task.Task),
	}
}

func (r *MemoryRepository) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		r.seq++
		t.ID = fmt.Sprintf("%s%03d", idPrefix, r.seq)
	} else {
		if _, ok := r.tasks[t.ID]; ok {
			return apierr.NewError(apierr.AlreadyExists, fmt.Sprintf("Task with ID %s already exists", t.ID), nil).WithWire("TASK_ALREADY_EXISTS")
		}
		r.advanceSeq(t.ID)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	r.order = append(r.order, t.ID)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*task.Task, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.tasks[id]
		all = append(all, &cp)
	}
	return all, nil
}

func (r *MemoryRepository) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return notFound(t.ID)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return notFound(id)
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Load replaces the repository contents with the given records,
// resetting the ID counter past the largest numeric suffix seen.
// Used by seeding and by the seed-file watcher.
func (r *MemoryRepository) Load(records []*task.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make(map[string]*task.Task, len(records))
	r.order = r.order[:0]
	r.seq = 0
	for _, t := range records {
		if _, ok := r.tasks[t.ID]; ok {
			continue
		}
		cp := *t
		r.tasks[t.ID] = &cp
		r.order = append(r.order, t.ID)
		r.advanceSeq(t.ID)
	}
}

// advanceSeq keeps the counter ahead of externally supplied IDs so
// generated IDs never collide with seeded ones. Caller holds mu.
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

func notFound(id string) *apierr.Error {
	return apierr.NewError(apierr.NotFound, fmt.Sprintf("Task with ID %s not found", id), nil).WithWire("TASK_NOT_FOUND")
}
