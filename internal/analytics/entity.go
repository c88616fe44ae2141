package analytics

// The analytics payloads are demo material: the numbers are fabricated
// on request and only the completed/overdue counts reflect the store.

type TaskMetric struct {
	TaskID         string `json:"task_id"`
	Title          string `json:"title"`
	DaysToComplete int    `json:"days_to_complete"`
	Complexity     string `json:"complexity"`
}

type TeamPerformance struct {
	TeamID         string       `json:"team_id"`
	CompletedTasks int          `json:"completed_tasks"`
	OverdueTasks   int          `json:"overdue_tasks"`
	Velocity       float64      `json:"velocity"`
	TaskMetrics    []TaskMetric `json:"task_metrics"`
}

type TaskUpdate struct {
	TaskID     string `json:"task_id"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
	Timestamp  int64  `json:"timestamp"`
}

// BatchItem is one line of the NDJSON body of POST /tasks/batch.
type BatchItem struct {
	TaskID    string `json:"task_id"`
	NewStatus string `json:"new_status"`
}

// BatchResult reports per-item accounting: every item independently
// succeeds or fails and failures are listed, never retried.
type BatchResult struct {
	SuccessfulUpdates int      `json:"successful_updates"`
	FailedUpdates     int      `json:"failed_updates"`
	ErrorMessages     []string `json:"error_messages"`
}

type Collaboration struct {
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}
