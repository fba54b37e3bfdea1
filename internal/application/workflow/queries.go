package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
)

// TaskStats is the aggregate projection rendered on dashboards. Pending
// counts every not-yet-started task (blocked or pending), so
// Total = Pending + InProgress + Completed always holds.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// QueryService is the read side of the task engine. Results are recomputed on
// every call; task state mutates too often for cached counts to be trusted.
type QueryService struct {
	tasks production.TaskRepository
	clock shared.Clock
}

// NewQueryService creates the read-side service.
func NewQueryService(tasks production.TaskRepository, clock shared.Clock) *QueryService {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &QueryService{tasks: tasks, clock: clock}
}

// TasksByRole returns all non-completed tasks for a role, highest priority
// first. The sort is stable: tasks of equal priority keep insertion order.
func (q *QueryService) TasksByRole(ctx context.Context, role production.Role) ([]*production.Task, error) {
	tasks, err := q.tasks.FindActiveByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by role: %w", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority().Weight() > tasks[j].Priority().Weight()
	})
	return tasks, nil
}

// TasksByOrder returns all tasks for an order in creation order, used to
// render the pipeline timeline.
func (q *QueryService) TasksByOrder(ctx context.Context, orderID string) ([]*production.Task, error) {
	tasks, err := q.tasks.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by order: %w", err)
	}
	return tasks, nil
}

// Stats computes the aggregate task counts as of now.
func (q *QueryService) Stats(ctx context.Context) (TaskStats, error) {
	tasks, err := q.tasks.FindAll(ctx)
	if err != nil {
		return TaskStats{}, fmt.Errorf("failed to query tasks: %w", err)
	}

	now := q.clock.Now()
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status() {
		case production.TaskStatusPending, production.TaskStatusBlocked:
			stats.Pending++
		case production.TaskStatusInProgress:
			stats.InProgress++
		case production.TaskStatusCompleted:
			stats.Completed++
		}
		if t.Status() != production.TaskStatusCompleted && t.DueDate().Before(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}
