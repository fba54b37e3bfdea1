package production

import "fmt"

// ErrTaskNotFound indicates a referenced task does not exist
type ErrTaskNotFound struct {
	TaskID string
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// ErrTaskAlreadyCompleted indicates a double-completion attempt.
// Callers surface it as a warning; the first completion stands.
type ErrTaskAlreadyCompleted struct {
	TaskID string
}

func (e *ErrTaskAlreadyCompleted) Error() string {
	return fmt.Sprintf("task %s is already completed", e.TaskID)
}

// ErrInvalidTaskTransition indicates an invalid task state transition
type ErrInvalidTaskTransition struct {
	TaskID      string
	From        TaskStatus
	To          TaskStatus
	Description string
}

func (e *ErrInvalidTaskTransition) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid task transition for %s: %s -> %s: %s",
			e.TaskID, e.From, e.To, e.Description)
	}
	return fmt.Sprintf("invalid task transition for %s: %s -> %s",
		e.TaskID, e.From, e.To)
}

// ErrTaskValidation indicates a completion payload that fails business
// validation. The task remains in its prior state.
type ErrTaskValidation struct {
	TaskID string
	Field  string
	Reason string
}

func (e *ErrTaskValidation) Error() string {
	return fmt.Sprintf("invalid completion for task %s: %s: %s", e.TaskID, e.Field, e.Reason)
}

// ErrSuccessorMissing indicates the task chain for an order is corrupted: the
// completed task names a successor type that was never generated. The
// completion is rejected rather than silently dropping the unlock.
type ErrSuccessorMissing struct {
	TaskID        string
	OrderID       string
	SuccessorType TaskType
}

func (e *ErrSuccessorMissing) Error() string {
	return fmt.Sprintf("task %s completes to %s but order %s has no such blocked task",
		e.TaskID, e.SuccessorType, e.OrderID)
}

// ErrStaleTask indicates an optimistic concurrency conflict: the task row was
// modified by another writer between read and write.
type ErrStaleTask struct {
	TaskID  string
	Version int
}

func (e *ErrStaleTask) Error() string {
	return fmt.Sprintf("task %s was modified concurrently (expected version %d)",
		e.TaskID, e.Version)
}
