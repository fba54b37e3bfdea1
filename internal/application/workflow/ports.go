package workflow

import (
	"context"

	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/production"
)

// UnitOfWork runs a function against transaction-bound repositories. Every
// write inside fn commits or rolls back together, which is what keeps
// completion handling (status write + successor unlock + branch spawn + order
// status) free of partial mutations.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tasks production.TaskRepository, orders order.Repository) error) error
}

// MetricsRecorder receives workflow events for observability. Implementations
// must be safe for concurrent use; a nil recorder is replaced with a no-op.
type MetricsRecorder interface {
	TaskGenerated(t production.TaskType)
	TaskCompleted(t production.TaskType)
	ReworkSpawned()
	TransitionRejected()
}

type noopMetrics struct{}

func (noopMetrics) TaskGenerated(production.TaskType) {}
func (noopMetrics) TaskCompleted(production.TaskType) {}
func (noopMetrics) ReworkSpawned()                    {}
func (noopMetrics) TransitionRejected()               {}
