package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	taskrepo "github.com/taskflow-labs/taskflow/internal/task/repositoryimpl"
	storyrepo "github.com/taskflow-labs/taskflow/internal/userstory/repositoryimpl"
)

func TestDefaults(t *testing.T) {
	f := Defaults()
	if len(f.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(f.Tasks))
	}
	if f.Tasks[0].ID != "task_001" || f.Tasks[1].ID != "task_002" {
		t.Errorf("unexpected task IDs %q, %q", f.Tasks[0].ID, f.Tasks[1].ID)
	}
	if len(f.UserStories) != 2 {
		t.Fatalf("user stories = %d, want 2", len(f.UserStories))
	}
	if f.UserStories[0].Priority != "high" {
		t.Errorf("story_001 priority = %q, want high", f.UserStories[0].Priority)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `
tasks:
  - id: task_010
    title: Seeded task
    description: From YAML
    status: pending
    created_at: 2024-02-01T08:00:00Z
user_stories:
  - id: story_010
    as_a: tester
    i_want: seeded stories
    so_that: fixtures are reproducible
    acceptance_criteria:
      - loads from file
    priority: low
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(f.Tasks) != 1 || f.Tasks[0].ID != "task_010" {
		t.Fatalf("unexpected tasks %+v", f.Tasks)
	}
	if f.Tasks[0].CreatedAt.IsZero() {
		t.Error("created_at did not parse")
	}
	if len(f.UserStories) != 1 || f.UserStories[0].Priority != "low" {
		t.Fatalf("unexpected stories %+v", f.UserStories)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplySeedsCounters(t *testing.T) {
	ctx := context.Background()
	tasks := taskrepo.NewMemoryRepository()
	stories := storyrepo.NewMemoryRepository()
	Apply(Defaults(), tasks, stories)

	all, err := tasks.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("tasks = %d, want 2", len(all))
	}

	// The counter continues past the seeded records.
	created := all[0]
	created.ID = ""
	if err := tasks.Create(ctx, created); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "task_003" {
		t.Errorf("next ID = %q, want task_003", created.ID)
	}
}
