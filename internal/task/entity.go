package task

import "time"

// Status values observed in practice. Status itself is a free-form
// string; no transition rules are enforced anywhere.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Status      string    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	// UserStory is narrative context, not a reference to a UserStory record.
	UserStory string `json:"user_story,omitempty" yaml:"user_story,omitempty"`
}
