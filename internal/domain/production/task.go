package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is the unit of work in the production pipeline. One task exists per
// (order, stage type) per production pass; rework and qc_rework may recur.
//
// State machine:
//
//	blocked --(all dependencies completed)--> pending
//	pending --(start)--> in_progress
//	in_progress --(complete)--> completed   [terminal]
//	in_progress --(unassign)--> pending
//
// Completion is also allowed directly from pending: the shop floor often
// reports a small task done without having pressed start first.
type Task struct {
	id          string
	orderID     string
	orderNumber string

	taskType TaskType
	role     Role
	status   TaskStatus
	priority TaskPriority

	estimatedHours float64
	actualHours    float64

	// Present only for quantity-bearing stages (cutting, sewing, qc,
	// packaging and the rework family).
	targetQuantity *int
	actualQuantity *int

	dueDate      time.Time
	dependencies []TaskType
	autoNext     TaskType // empty for terminal stage types

	notes       string
	startedBy   string
	completedBy string

	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time

	// Optimistic concurrency token; bumped by the repository on every write.
	version int
}

// NewTask instantiates a task for one catalog stage of an order. The first
// stage of the pipeline starts pending; every later stage starts blocked.
func NewTask(
	stage StageDefinition,
	orderID string,
	orderNumber string,
	quantity int,
	estimatedHours float64,
	dueDate time.Time,
	createdAt time.Time,
) *Task {
	status := TaskStatusBlocked
	if len(stage.Dependencies) == 0 {
		status = TaskStatusPending
	}

	t := &Task{
		id:             uuid.New().String(),
		orderID:        orderID,
		orderNumber:    orderNumber,
		taskType:       stage.Type,
		role:           stage.Role,
		status:         status,
		priority:       stage.Priority,
		estimatedHours: estimatedHours,
		dueDate:        dueDate,
		dependencies:   append([]TaskType(nil), stage.Dependencies...),
		autoNext:       stage.AutoNext,
		createdAt:      createdAt,
	}
	if stage.QuantityBearing {
		qty := quantity
		t.targetQuantity = &qty
	}
	return t
}

// NewBranchTask instantiates a rework-family task. Branch tasks are created
// pending, never blocked: their trigger condition was evaluated at creation
// time, not via the dependency mechanism.
func NewBranchTask(
	stage StageDefinition,
	orderID string,
	orderNumber string,
	quantity int,
	estimatedHours float64,
	dueDate time.Time,
	createdAt time.Time,
) *Task {
	t := NewTask(stage, orderID, orderNumber, quantity, estimatedHours, dueDate, createdAt)
	t.status = TaskStatusPending
	return t
}

// Getters

func (t *Task) ID() string              { return t.id }
func (t *Task) OrderID() string         { return t.orderID }
func (t *Task) OrderNumber() string     { return t.orderNumber }
func (t *Task) Type() TaskType          { return t.taskType }
func (t *Task) Role() Role              { return t.role }
func (t *Task) Status() TaskStatus      { return t.status }
func (t *Task) Priority() TaskPriority  { return t.priority }
func (t *Task) EstimatedHours() float64 { return t.estimatedHours }
func (t *Task) ActualHours() float64    { return t.actualHours }
func (t *Task) TargetQuantity() *int    { return t.targetQuantity }
func (t *Task) ActualQuantity() *int    { return t.actualQuantity }
func (t *Task) DueDate() time.Time      { return t.dueDate }
func (t *Task) Dependencies() []TaskType {
	return append([]TaskType(nil), t.dependencies...)
}
func (t *Task) AutoNext() TaskType      { return t.autoNext }
func (t *Task) Notes() string           { return t.notes }
func (t *Task) StartedBy() string       { return t.startedBy }
func (t *Task) CompletedBy() string     { return t.completedBy }
func (t *Task) CreatedAt() time.Time    { return t.createdAt }
func (t *Task) StartedAt() *time.Time   { return t.startedAt }
func (t *Task) CompletedAt() *time.Time { return t.completedAt }
func (t *Task) Version() int            { return t.version }

// IsCompleted returns true once the task has reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.status == TaskStatusCompleted
}

// DependenciesSatisfied reports whether every dependency type is present in
// the given set of completed types for the same order.
func (t *Task) DependenciesSatisfied(completed map[TaskType]bool) bool {
	for _, dep := range t.dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// State transitions

// Unblock transitions the task from blocked to pending once its dependencies
// have completed.
func (t *Task) Unblock() error {
	if t.status != TaskStatusBlocked {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusPending,
			Description: "only blocked tasks can be unblocked",
		}
	}
	t.status = TaskStatusPending
	return nil
}

// Start marks the task in progress and records who started it.
func (t *Task) Start(startedBy string) error {
	if t.status != TaskStatusPending {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusInProgress,
			Description: "only pending tasks can be started",
		}
	}
	t.status = TaskStatusInProgress
	t.startedBy = startedBy
	now := time.Now().UTC()
	t.startedAt = &now
	return nil
}

// Unassign returns an in-progress task to pending so it can be picked up by
// someone else. The audit trail keeps createdAt but drops the abandoned start.
func (t *Task) Unassign() error {
	if t.status != TaskStatusInProgress {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusPending,
			Description: "only in-progress tasks can be unassigned",
		}
	}
	t.status = TaskStatusPending
	t.startedBy = ""
	t.startedAt = nil
	return nil
}

// Complete marks the task completed and stamps the audit fields. Completing a
// blocked task is rejected; completing twice returns ErrTaskAlreadyCompleted.
func (t *Task) Complete(completedBy string) error {
	switch t.status {
	case TaskStatusCompleted:
		return &ErrTaskAlreadyCompleted{TaskID: t.id}
	case TaskStatusBlocked:
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusCompleted,
			Description: "dependencies not completed",
		}
	}
	t.status = TaskStatusCompleted
	t.completedBy = completedBy
	now := time.Now().UTC()
	t.completedAt = &now
	return nil
}

// Setters for completion actuals. Applied by the completion handler after
// validation, before the task is persisted.

func (t *Task) SetActualHours(hours float64) { t.actualHours = hours }

func (t *Task) SetActualQuantity(qty int) {
	q := qty
	t.actualQuantity = &q
}

func (t *Task) SetNotes(notes string) { t.notes = notes }

// SetVersionForRecovery sets the concurrency token. Repository use only.
func (t *Task) SetVersionForRecovery(v int) { t.version = v }

// String provides a human-readable representation for logs.
func (t *Task) String() string {
	return fmt.Sprintf("Task[%s, order=%s, type=%s, status=%s]",
		shortID(t.id), t.orderNumber, t.taskType, t.status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ReconstituteTask rebuilds a task from persisted data (repository use only).
func ReconstituteTask(
	id string,
	orderID string,
	orderNumber string,
	taskType TaskType,
	role Role,
	status TaskStatus,
	priority TaskPriority,
	estimatedHours float64,
	actualHours float64,
	targetQuantity *int,
	actualQuantity *int,
	dueDate time.Time,
	dependencies []TaskType,
	autoNext TaskType,
	notes string,
	startedBy string,
	completedBy string,
	createdAt time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
	version int,
) *Task {
	return &Task{
		id:             id,
		orderID:        orderID,
		orderNumber:    orderNumber,
		taskType:       taskType,
		role:           role,
		status:         status,
		priority:       priority,
		estimatedHours: estimatedHours,
		actualHours:    actualHours,
		targetQuantity: targetQuantity,
		actualQuantity: actualQuantity,
		dueDate:        dueDate,
		dependencies:   dependencies,
		autoNext:       autoNext,
		notes:          notes,
		startedBy:      startedBy,
		completedBy:    completedBy,
		createdAt:      createdAt,
		startedAt:      startedAt,
		completedAt:    completedAt,
		version:        version,
	}
}
