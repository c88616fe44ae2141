package seed

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	taskrepo "github.com/taskflow-labs/taskflow/internal/task/repositoryimpl"
	storyrepo "github.com/taskflow-labs/taskflow/internal/userstory/repositoryimpl"
)

// debounceInterval is the delay after an fsnotify event before the file
// is re-read. Editors fire several events per save.
const debounceInterval = 100 * time.Millisecond

// Watcher reloads the seed file into the repositories whenever it
// changes. A reload replaces the store contents wholesale, which is the
// point: the seed file is the source of truth in this demo workflow.
type Watcher struct {
	path    string
	tasks   *taskrepo.MemoryRepository
	stories *storyrepo.MemoryRepository
}

func NewWatcher(path string, tasks *taskrepo.MemoryRepository, stories *storyrepo.MemoryRepository) *Watcher {
	return &Watcher{
		path:    path,
		tasks:   tasks,
		stories: stories,
	}
}

// Start blocks until ctx is cancelled. The parent directory is watched
// rather than the file itself so atomic-save renames are picked up.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	slog.Info("watching seed file", "path", w.path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("seed watcher error", "error", err)
		case <-reload:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	f, err := LoadFile(w.path)
	if err != nil {
		slog.Warn("seed reload failed", "path", w.path, "error", err)
		return
	}
	Apply(f, w.tasks, w.stories)
	slog.Info("seed reloaded", "path", w.path, "tasks", len(f.Tasks), "user_stories", len(f.UserStories))
}
