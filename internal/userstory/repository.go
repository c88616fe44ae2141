package userstory

import "context"

// Repository stores user stories. Stories are create-only: no update or
// delete operation is exposed. Create assigns an ID when s.ID is empty.
type Repository interface {
	Create(ctx context.Context, s *UserStory) error
	Get(ctx context.Context, id string) (*UserStory, error)
	List(ctx context.Context) ([]*UserStory, error)
}
