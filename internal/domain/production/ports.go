package production

import "context"

// TaskRepository handles persistence of production tasks.
//
// Find methods return (nil, nil) when no row matches. Update enforces
// optimistic concurrency: it writes only if the stored version matches the
// entity's version, bumps the version on success, and returns *ErrStaleTask
// when another writer got there first. That guard is what makes the
// already-completed check in the completion handler atomic with the status
// write.
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *Task) error

	// CreateBatch persists the generated task chain in a single transaction.
	// Generation is all-or-nothing: if any insert fails, none persist.
	CreateBatch(ctx context.Context, tasks []*Task) error

	// Update saves changes to an existing task with a version guard
	Update(ctx context.Context, task *Task) error

	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id string) (*Task, error)

	// FindByOrderAndType retrieves the task of the given type for an order.
	// For recurring rework types it returns the most recently created one.
	FindByOrderAndType(ctx context.Context, orderID string, t TaskType) (*Task, error)

	// FindByOrder retrieves all tasks for an order, createdAt ascending
	FindByOrder(ctx context.Context, orderID string) ([]*Task, error)

	// FindActiveByRole retrieves all non-completed tasks for a role,
	// createdAt ascending
	FindActiveByRole(ctx context.Context, role Role) ([]*Task, error)

	// FindAll retrieves every task, createdAt ascending
	FindAll(ctx context.Context) ([]*Task, error)
}
