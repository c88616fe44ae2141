// Package seed provides the demo fixtures the server starts with, an
// optional YAML seed file override, and a watcher that reloads the file
// on change during local development.
package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskflow-labs/taskflow/internal/task"
	taskrepo "github.com/taskflow-labs/taskflow/internal/task/repositoryimpl"
	"github.com/taskflow-labs/taskflow/internal/userstory"
	storyrepo "github.com/taskflow-labs/taskflow/internal/userstory/repositoryimpl"
)

type Fixtures struct {
	Tasks       []*task.Task           `yaml:"tasks"`
	UserStories []*userstory.UserStory `yaml:"user_stories"`
}

// Defaults returns the built-in demo records.
func Defaults() *Fixtures {
	return &Fixtures{
		Tasks: []*task.Task{
			{
				ID:          "task_001",
				Title:       "Learn Go",
				Description: "Build your first API with Go and chi",
				Status:      task.StatusInProgress,
				CreatedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
				UserStory:   "As a developer, I want to learn Go so that I can build modern APIs quickly",
			},
			{
				ID:          "task_002",
				Title:       "Understand REST",
				Description: "Learn REST principles and HTTP methods",
				Status:      task.StatusCompleted,
				CreatedAt:   time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC),
				UserStory:   "As a developer, I want to understand REST principles so that I can design better APIs",
			},
		},
		UserStories: []*userstory.UserStory{
			{
				ID:     "story_001",
				AsA:    "project manager",
				IWant:  "to see all tasks for my team",
				SoThat: "I can track progress and identify blockers",
				AcceptanceCriteria: []string{
					"Can view all tasks in a project",
					"Can filter by status",
					"Can see task assignments",
				},
				Priority: "high",
			},
			{
				ID:     "story_002",
				AsA:    "developer",
				IWant:  "to update task status",
				SoThat: "I can keep the team informed of my progress",
				AcceptanceCriteria: []string{
					"Can change status to in_progress",
					"Can mark tasks as completed",
					"Can add comments to tasks",
				},
				Priority: userstory.DefaultPriority,
			},
		},
	}
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply replaces the repository contents with the fixtures.
func Apply(f *Fixtures, tasks *taskrepo.MemoryRepository, stories *storyrepo.MemoryRepository) {
	tasks.Load(f.Tasks)
	stories.Load(f.UserStories)
}
