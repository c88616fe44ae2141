// Package analytics re-expresses the four RPC interaction styles over
// HTTP: a unary performance snapshot, a server-streamed update feed
// (SSE), a client-streamed batch update (NDJSON request body), and a
// duplex collaboration echo (NDJSON both ways).
package analytics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sourcegraph/conc/pool"

	"github.com/taskflow-labs/taskflow/internal/eventbus"
	"github.com/taskflow-labs/taskflow/internal/task"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
	"github.com/taskflow-labs/taskflow/pkg/envelope"
)

const (
	// fabricated velocity, kept from the learning demo
	demoVelocity = 12.5

	defaultUpdateCount    = 5
	defaultUpdateInterval = 2 * time.Second
	minUpdateInterval     = 10 * time.Millisecond

	maxBatchWorkers = 4
	maxBatchLine    = 1 << 16
)

var (
	demoComplexities = []string{"low", "medium", "high"}
	demoAssignees    = []string{"alice", "bob", "charlie", "diana"}
	demoStatuses     = []string{task.StatusPending, task.StatusInProgress, task.StatusCompleted}
)

type Server struct {
	taskRepo task.Repository
	eventBus *eventbus.Bus
}

func NewServer(taskRepo task.Repository, eventBus *eventbus.Bus) *Server {
	return &Server{
		taskRepo: taskRepo,
		eventBus: eventBus,
	}
}

// HandlePerformance is the unary style: one request, one enveloped
// response. Counts come from the store; the per-task metrics are made up.
func (s *Server) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		apierr.SetJSONError(ctx, err)
		return
	}

	perf := TeamPerformance{
		TeamID:      chi.URLParam(r, "teamID"),
		Velocity:    demoVelocity,
		TaskMetrics: make([]TaskMetric, 0, len(tasks)),
	}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusCompleted:
			perf.CompletedTasks++
		case task.StatusOverdue:
			perf.OverdueTasks++
		}
		perf.TaskMetrics = append(perf.TaskMetrics, TaskMetric{
			TaskID:         t.ID,
			Title:          t.Title,
			DaysToComplete: 1 + rand.IntN(10),
			Complexity:     demoComplexities[rand.IntN(len(demoComplexities))],
		})
	}

	apierr.SetJSONResponse(ctx, envelope.OK(perf, "Team performance retrieved successfully"))
}

// HandleStreamUpdates is the server-streaming style: simulated task
// status updates as SSE. "count" and "interval" query params control
// the stream; the default mirrors the original demo (5 updates, 2s apart).
func (s *Server) HandleStreamUpdates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		apierr.WriteError(ctx, w, apierr.NewError(apierr.Internal, "streaming unsupported", nil))
		return
	}

	count := defaultUpdateCount
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}
	interval := defaultUpdateInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= minUpdateInterval {
			interval = d
		}
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		apierr.WriteError(ctx, w, apierr.NewError(apierr.Internal, "server error", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < count; i++ {
		update := TaskUpdate{
			Status:     demoStatuses[rand.IntN(len(demoStatuses))],
			AssignedTo: demoAssignees[rand.IntN(len(demoAssignees))],
			Timestamp:  time.Now().Unix(),
		}
		if len(tasks) > 0 {
			update.TaskID = tasks[rand.IntN(len(tasks))].ID
		} else {
			update.TaskID = fmt.Sprintf("task_%03d", i+1)
		}
		data, err := json.Marshal(update)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()

		if i == count-1 {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// HandleBatchUpdate is the client-streaming style: the body is NDJSON,
// one {task_id, new_status} per line. Items are applied concurrently on
// a bounded pool; each independently succeeds or fails and the aggregate
// reports counts plus per-item error strings.
func (s *Server) HandleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		mu     sync.Mutex
		result BatchResult
	)
	fail := func(msg string) {
		mu.Lock()
		result.FailedUpdates++
		result.ErrorMessages = append(result.ErrorMessages, msg)
		mu.Unlock()
	}

	p := pool.New().WithMaxGoroutines(maxBatchWorkers)
	scanner := bufio.NewScanner(r.Body)
	scanner.Buffer(make([]byte, 0, 4096), maxBatchLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item BatchItem
		if err := json.Unmarshal(line, &item); err != nil {
			fail(fmt.Sprintf("invalid batch item: %v", err))
			continue
		}
		p.Go(func() {
			if err := s.applyUpdate(r, item); err != nil {
				fail(err.Error())
				return
			}
			mu.Lock()
			result.SuccessfulUpdates++
			mu.Unlock()
		})
	}
	p.Wait()

	if err := scanner.Err(); err != nil {
		apierr.SetJSONError(ctx, apierr.NewError(apierr.InvalidArgument, "invalid request body", err))
		return
	}
	if result.ErrorMessages == nil {
		result.ErrorMessages = []string{}
	}

	apierr.SetJSONResponse(ctx, envelope.OK(result, fmt.Sprintf(
		"Batch complete: %d successful, %d failed", result.SuccessfulUpdates, result.FailedUpdates)))
}

func (s *Server) applyUpdate(r *http.Request, item BatchItem) error {
	ctx := r.Context()
	if item.TaskID == "" || item.NewStatus == "" {
		return fmt.Errorf("batch item requires task_id and new_status")
	}
	t, err := s.taskRepo.Get(ctx, item.TaskID)
	if err != nil {
		return fmt.Errorf("Failed to update %s", item.TaskID)
	}
	t.Status = item.NewStatus
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return fmt.Errorf("Failed to update %s", item.TaskID)
	}
	s.eventBus.PublishNew(eventbus.EventTypeTaskUpdated, t.ID, map[string]string{"status": t.Status})
	return nil
}

// HandleCollaborate is the duplex style: NDJSON messages in, one
// acknowledgement per message out, flushed as they arrive.
func (s *Server) HandleCollaborate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	taskID := chi.URLParam(r, "taskID")
	if _, err := s.taskRepo.Get(ctx, taskID); err != nil {
		var aerr *apierr.Error
		if apierr.IsCode(err, apierr.NotFound) {
			aerr = apierr.NewError(apierr.NotFound, fmt.Sprintf("Task with ID %s not found", taskID), nil).WithWire("TASK_NOT_FOUND")
		} else {
			aerr = apierr.NewError(apierr.Internal, "server error", err)
		}
		apierr.WriteError(ctx, w, aerr)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		apierr.WriteError(ctx, w, apierr.NewError(apierr.Internal, "streaming unsupported", nil))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(r.Body)
	scanner.Buffer(make([]byte, 0, 4096), maxBatchLine)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var in Collaboration
		if err := json.Unmarshal(line, &in); err != nil {
			continue
		}
		ack := Collaboration{
			TaskID:    taskID,
			UserID:    "server",
			Action:    "acknowledge",
			Data:      "Received: " + in.Data,
			Timestamp: time.Now().Unix(),
		}
		if err := enc.Encode(ack); err != nil {
			return
		}
		flusher.Flush()
	}
}
