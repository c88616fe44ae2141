package task

import "context"

// Repository stores tasks. Create assigns an ID when t.ID is empty;
// the ID sequence is owned by the implementation.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}
