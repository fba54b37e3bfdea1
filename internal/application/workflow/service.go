package workflow

import (
	"context"
	"fmt"

	"github.com/avasylenko/stitchflow/internal/application/common"
	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
)

// Service is the synchronous command side of the task workflow engine:
// generation of the task chain at order creation, and the start / complete /
// unassign operations the shop floor drives. Queries live in QueryService.
//
// Every mutating operation validates fully before writing and commits all its
// writes in one unit of work, so a rejected operation never leaves partial
// state behind.
type Service struct {
	uow       UnitOfWork
	tasks     production.TaskRepository
	orders    order.Repository
	generator *production.Generator
	branches  *production.BranchPolicy
	validator *completionValidator
	clock     shared.Clock
	metrics   MetricsRecorder
}

// DefaultQuantityTolerance allows actual quantity to exceed target by 10%
// before the completion is rejected.
const DefaultQuantityTolerance = 0.10

// NewService creates the workflow command service. A nil clock falls back to
// the real clock; a nil metrics recorder is replaced with a no-op; a
// non-positive tolerance falls back to the default.
func NewService(
	uow UnitOfWork,
	tasks production.TaskRepository,
	orders order.Repository,
	generator *production.Generator,
	clock shared.Clock,
	quantityTolerance float64,
	metrics MetricsRecorder,
) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if quantityTolerance <= 0 {
		quantityTolerance = DefaultQuantityTolerance
	}
	return &Service{
		uow:       uow,
		tasks:     tasks,
		orders:    orders,
		generator: generator,
		branches:  production.NewBranchPolicy(generator),
		validator: newCompletionValidator(quantityTolerance),
		clock:     clock,
		metrics:   metrics,
	}
}

// GenerateOrderTasks instantiates and persists the full task chain for an
// order and moves the order into production. The batch insert is
// all-or-nothing: a failure on any task leaves no tasks behind.
func (s *Service) GenerateOrderTasks(ctx context.Context, orderID string) ([]*production.Task, error) {
	logger := common.LoggerFromContext(ctx)

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if o == nil {
		return nil, &order.ErrOrderNotFound{OrderID: orderID}
	}

	tasks, err := s.generator.Generate(o)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, taskRepo production.TaskRepository, orderRepo order.Repository) error {
		if err := o.StartProduction(); err != nil {
			return err
		}
		if err := taskRepo.CreateBatch(ctx, tasks); err != nil {
			return err
		}
		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		s.metrics.TaskGenerated(t.Type())
	}
	logger.Log("INFO", fmt.Sprintf("Generated %d tasks for order %s", len(tasks), o.OrderNumber()),
		map[string]interface{}{"order_id": orderID})

	return tasks, nil
}

// StartTask moves a pending task to in_progress and records who started it.
func (s *Service) StartTask(ctx context.Context, taskID string, startedBy string) error {
	task, err := s.loadTask(ctx, s.tasks, taskID)
	if err != nil {
		return err
	}
	if err := task.Start(startedBy); err != nil {
		s.metrics.TransitionRejected()
		return err
	}
	return s.tasks.Update(ctx, task)
}

// UnassignTask returns an in-progress task to pending so another worker can
// pick it up.
func (s *Service) UnassignTask(ctx context.Context, taskID string) error {
	task, err := s.loadTask(ctx, s.tasks, taskID)
	if err != nil {
		return err
	}
	if err := task.Unassign(); err != nil {
		s.metrics.TransitionRejected()
		return err
	}
	return s.tasks.Update(ctx, task)
}

// CompleteTask transitions a task to completed, records actuals, unlocks the
// successor stage, and applies the quality-control branch rules. The whole
// mutation runs in one transaction with an optimistic version guard on the
// task row, so two concurrent completions cannot both succeed and the
// successor unlock is applied at most once.
func (s *Service) CompleteTask(ctx context.Context, taskID string, data *CompletionData) error {
	logger := common.LoggerFromContext(ctx)
	if data == nil {
		data = &CompletionData{}
	}

	err := s.uow.Do(ctx, func(ctx context.Context, taskRepo production.TaskRepository, orderRepo order.Repository) error {
		task, err := s.loadTask(ctx, taskRepo, taskID)
		if err != nil {
			return err
		}

		// Validate everything before the first write.
		switch task.Status() {
		case production.TaskStatusCompleted:
			s.metrics.TransitionRejected()
			return &production.ErrTaskAlreadyCompleted{TaskID: taskID}
		case production.TaskStatusBlocked:
			s.metrics.TransitionRejected()
			return &production.ErrInvalidTaskTransition{
				TaskID:      taskID,
				From:        task.Status(),
				To:          production.TaskStatusCompleted,
				Description: "dependencies not completed",
			}
		}
		if err := s.validator.Check(task, data); err != nil {
			return err
		}

		var successor *production.Task
		if task.AutoNext() != "" {
			successor, err = taskRepo.FindByOrderAndType(ctx, task.OrderID(), task.AutoNext())
			if err != nil {
				return err
			}
			if successor == nil {
				return &production.ErrSuccessorMissing{
					TaskID:        taskID,
					OrderID:       task.OrderID(),
					SuccessorType: task.AutoNext(),
				}
			}
		}

		if err := task.Complete(data.CompletedBy); err != nil {
			return err
		}
		if data.ActualHours > 0 {
			task.SetActualHours(data.ActualHours)
		} else {
			task.SetActualHours(task.EstimatedHours())
		}
		if data.ActualQuantity != nil {
			task.SetActualQuantity(*data.ActualQuantity)
		}
		if data.Notes != "" {
			task.SetNotes(data.Notes)
		}
		if err := taskRepo.Update(ctx, task); err != nil {
			return err
		}

		outcome, err := s.branches.Evaluate(production.BranchContext{
			Task: task,
			QC:   data.toDomainQC(),
			Now:  s.clock.Now(),
		})
		if err != nil {
			return err
		}

		if successor != nil && !outcome.DeferUnlock {
			if err := s.unblock(ctx, taskRepo, successor); err != nil {
				return err
			}
		}
		if outcome.Unlock != "" {
			if err := s.unlockByType(ctx, taskRepo, task.OrderID(), outcome.Unlock); err != nil {
				return err
			}
		}
		if outcome.Spawn != nil {
			if err := taskRepo.Create(ctx, outcome.Spawn); err != nil {
				return err
			}
			logger.Log("INFO", fmt.Sprintf("Spawned %s task for order %s (qty %d)",
				outcome.Spawn.Type(), task.OrderNumber(), *outcome.Spawn.TargetQuantity()),
				map[string]interface{}{"task_id": outcome.Spawn.ID()})
		}

		if task.Type() == production.TaskTypePackaging {
			if err := s.markOrderReady(ctx, orderRepo, task.OrderID()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Metrics outside the transaction: only committed completions count.
	task, lookupErr := s.tasks.FindByID(ctx, taskID)
	if lookupErr == nil && task != nil {
		s.metrics.TaskCompleted(task.Type())
		if task.Type() == production.TaskTypeQC || task.Type() == production.TaskTypeQCRework {
			if data.QCResults != nil && data.QCResults.ReworkNeeded > 0 {
				s.metrics.ReworkSpawned()
			}
		}
	}
	return nil
}

func (s *Service) loadTask(ctx context.Context, repo production.TaskRepository, taskID string) (*production.Task, error) {
	task, err := repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, &production.ErrTaskNotFound{TaskID: taskID}
	}
	return task, nil
}

func (s *Service) unblock(ctx context.Context, repo production.TaskRepository, task *production.Task) error {
	if task.Status() != production.TaskStatusBlocked {
		// Already released on an earlier pass; unlocking is at-most-once.
		return nil
	}
	if err := task.Unblock(); err != nil {
		return err
	}
	return repo.Update(ctx, task)
}

func (s *Service) unlockByType(ctx context.Context, repo production.TaskRepository, orderID string, t production.TaskType) error {
	task, err := repo.FindByOrderAndType(ctx, orderID, t)
	if err != nil {
		return err
	}
	if task == nil {
		return &production.ErrSuccessorMissing{OrderID: orderID, SuccessorType: t}
	}
	return s.unblock(ctx, repo, task)
}

func (s *Service) markOrderReady(ctx context.Context, repo order.Repository, orderID string) error {
	o, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if o == nil {
		return &order.ErrOrderNotFound{OrderID: orderID}
	}
	if err := o.MarkReadyForDelivery(); err != nil {
		return err
	}
	return repo.Update(ctx, o)
}
