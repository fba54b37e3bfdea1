package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avasylenko/stitchflow/internal/domain/production"
)

// GormTaskRepository implements production.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task together with its dependency rows
func (r *GormTaskRepository) Create(ctx context.Context, task *production.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTask(tx, task)
	})
}

// CreateBatch persists the generated task chain in a single transaction.
// If any insert fails nothing persists.
func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []*production.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := createTask(tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

func createTask(tx *gorm.DB, task *production.Task) error {
	model := taskToModel(task)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create task %s: %w", task.ID(), err)
	}
	for _, dep := range task.Dependencies() {
		row := &TaskDependencyModel{TaskID: task.ID(), DependsOnType: string(dep)}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create task dependency: %w", err)
		}
	}
	return nil
}

// Update saves changes to an existing task, guarded on the version column.
// A concurrent writer makes the guard miss and the caller gets ErrStaleTask;
// this is what serializes read-then-write per task across workers.
func (r *GormTaskRepository) Update(ctx context.Context, task *production.Task) error {
	model := taskToModel(task)
	nextVersion := task.Version() + 1

	result := r.db.WithContext(ctx).Model(&ProductionTaskModel{}).
		Where("id = ? AND version = ?", task.ID(), task.Version()).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"actual_hours":    model.ActualHours,
			"actual_quantity": model.ActualQuantity,
			"notes":           model.Notes,
			"started_by":      model.StartedBy,
			"completed_by":    model.CompletedBy,
			"started_at":      model.StartedAt,
			"completed_at":    model.CompletedAt,
			"version":         nextVersion,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &production.ErrStaleTask{TaskID: task.ID(), Version: task.Version()}
	}

	task.SetVersionForRecovery(nextVersion)
	return nil
}

// FindByID retrieves a task by its ID. Returns (nil, nil) when absent.
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*production.Task, error) {
	var model ProductionTaskModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", result.Error)
	}
	return r.hydrate(ctx, &model)
}

// FindByOrderAndType retrieves the task of a given type for an order. Rework
// types may recur; the most recently created one wins.
func (r *GormTaskRepository) FindByOrderAndType(ctx context.Context, orderID string, t production.TaskType) (*production.Task, error) {
	var model ProductionTaskModel
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND task_type = ?", orderID, string(t)).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task by order and type: %w", result.Error)
	}
	return r.hydrate(ctx, &model)
}

// FindByOrder retrieves all tasks for an order, createdAt ascending
func (r *GormTaskRepository) FindByOrder(ctx context.Context, orderID string) ([]*production.Task, error) {
	var models []ProductionTaskModel
	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find tasks for order: %w", result.Error)
	}
	return r.hydrateAll(ctx, models)
}

// FindActiveByRole retrieves all non-completed tasks for a role,
// createdAt ascending
func (r *GormTaskRepository) FindActiveByRole(ctx context.Context, role production.Role) ([]*production.Task, error) {
	var models []ProductionTaskModel
	result := r.db.WithContext(ctx).
		Where("assigned_role = ? AND status != ?", string(role), string(production.TaskStatusCompleted)).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find tasks by role: %w", result.Error)
	}
	return r.hydrateAll(ctx, models)
}

// FindAll retrieves every task, createdAt ascending
func (r *GormTaskRepository) FindAll(ctx context.Context) ([]*production.Task, error) {
	var models []ProductionTaskModel
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", result.Error)
	}
	return r.hydrateAll(ctx, models)
}

func (r *GormTaskRepository) hydrateAll(ctx context.Context, models []ProductionTaskModel) ([]*production.Task, error) {
	tasks := make([]*production.Task, len(models))
	for i := range models {
		t, err := r.hydrate(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		tasks[i] = t
	}
	return tasks, nil
}

func (r *GormTaskRepository) hydrate(ctx context.Context, model *ProductionTaskModel) (*production.Task, error) {
	var depRows []TaskDependencyModel
	result := r.db.WithContext(ctx).Where("task_id = ?", model.ID).Find(&depRows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find dependencies: %w", result.Error)
	}
	deps := make([]production.TaskType, len(depRows))
	for i, row := range depRows {
		deps[i] = production.TaskType(row.DependsOnType)
	}
	return modelToTask(model, deps), nil
}

// taskToModel converts domain entity to database model
func taskToModel(t *production.Task) *ProductionTaskModel {
	var autoNext, notes, startedBy, completedBy *string
	if t.AutoNext() != "" {
		s := string(t.AutoNext())
		autoNext = &s
	}
	if t.Notes() != "" {
		s := t.Notes()
		notes = &s
	}
	if t.StartedBy() != "" {
		s := t.StartedBy()
		startedBy = &s
	}
	if t.CompletedBy() != "" {
		s := t.CompletedBy()
		completedBy = &s
	}

	return &ProductionTaskModel{
		ID:             t.ID(),
		OrderID:        t.OrderID(),
		OrderNumber:    t.OrderNumber(),
		TaskType:       string(t.Type()),
		AssignedRole:   string(t.Role()),
		Status:         string(t.Status()),
		Priority:       string(t.Priority()),
		EstimatedHours: t.EstimatedHours(),
		ActualHours:    t.ActualHours(),
		TargetQuantity: t.TargetQuantity(),
		ActualQuantity: t.ActualQuantity(),
		DueDate:        t.DueDate(),
		AutoNext:       autoNext,
		Notes:          notes,
		StartedBy:      startedBy,
		CompletedBy:    completedBy,
		CreatedAt:      t.CreatedAt(),
		StartedAt:      t.StartedAt(),
		CompletedAt:    t.CompletedAt(),
		Version:        t.Version(),
	}
}

// modelToTask converts database model to domain entity
func modelToTask(m *ProductionTaskModel, deps []production.TaskType) *production.Task {
	var autoNext production.TaskType
	if m.AutoNext != nil {
		autoNext = production.TaskType(*m.AutoNext)
	}
	var notes, startedBy, completedBy string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.StartedBy != nil {
		startedBy = *m.StartedBy
	}
	if m.CompletedBy != nil {
		completedBy = *m.CompletedBy
	}

	return production.ReconstituteTask(
		m.ID,
		m.OrderID,
		m.OrderNumber,
		production.TaskType(m.TaskType),
		production.Role(m.AssignedRole),
		production.TaskStatus(m.Status),
		production.TaskPriority(m.Priority),
		m.EstimatedHours,
		m.ActualHours,
		m.TargetQuantity,
		m.ActualQuantity,
		m.DueDate,
		deps,
		autoNext,
		notes,
		startedBy,
		completedBy,
		m.CreatedAt,
		m.StartedAt,
		m.CompletedAt,
		m.Version,
	)
}
