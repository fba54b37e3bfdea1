package production_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasylenko/stitchflow/internal/domain/production"
)

func newStageTask(t *testing.T, taskType production.TaskType) *production.Task {
	t.Helper()
	catalog := production.DefaultCatalog()
	stage, ok := catalog.StageFor(taskType)
	require.True(t, ok)
	now := time.Now().UTC()
	return production.NewTask(stage, "order-1", "ORD-001", 25,
		catalog.EstimateHours(taskType, 25), now.AddDate(0, 0, 1), now)
}

func TestNewTask_FirstStageStartsPending(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)

	assert.Equal(t, production.TaskStatusPending, task.Status())
	assert.Empty(t, task.Dependencies())
	assert.Nil(t, task.TargetQuantity())
}

func TestNewTask_DependentStageStartsBlocked(t *testing.T) {
	task := newStageTask(t, production.TaskTypeSewing)

	assert.Equal(t, production.TaskStatusBlocked, task.Status())
	assert.Equal(t, []production.TaskType{production.TaskTypeCutting}, task.Dependencies())
	require.NotNil(t, task.TargetQuantity())
	assert.Equal(t, 25, *task.TargetQuantity())
}

func TestNewBranchTask_StartsPending(t *testing.T) {
	catalog := production.DefaultCatalog()
	stage, _ := catalog.StageFor(production.TaskTypeRework)
	now := time.Now().UTC()

	task := production.NewBranchTask(stage, "order-1", "ORD-001", 3, 3, now.AddDate(0, 0, 1), now)

	assert.Equal(t, production.TaskStatusPending, task.Status())
	require.NotNil(t, task.TargetQuantity())
	assert.Equal(t, 3, *task.TargetQuantity())
}

func TestTask_Unblock(t *testing.T) {
	task := newStageTask(t, production.TaskTypeProcurement)

	err := task.Unblock()

	require.NoError(t, err)
	assert.Equal(t, production.TaskStatusPending, task.Status())
}

func TestTask_Unblock_RejectsNonBlocked(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec) // already pending

	err := task.Unblock()

	var transitionErr *production.ErrInvalidTaskTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, production.TaskStatusPending, transitionErr.From)
}

func TestTask_Start(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)

	err := task.Start("maria")

	require.NoError(t, err)
	assert.Equal(t, production.TaskStatusInProgress, task.Status())
	assert.Equal(t, "maria", task.StartedBy())
	assert.NotNil(t, task.StartedAt())
}

func TestTask_Start_RejectsBlocked(t *testing.T) {
	task := newStageTask(t, production.TaskTypeSewing)

	err := task.Start("maria")

	var transitionErr *production.ErrInvalidTaskTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, production.TaskStatusBlocked, transitionErr.From)
	assert.Equal(t, production.TaskStatusBlocked, task.Status())
}

func TestTask_Unassign(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)
	require.NoError(t, task.Start("maria"))

	err := task.Unassign()

	require.NoError(t, err)
	assert.Equal(t, production.TaskStatusPending, task.Status())
	assert.Empty(t, task.StartedBy())
	assert.Nil(t, task.StartedAt())
}

func TestTask_Unassign_RejectsPending(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)

	err := task.Unassign()

	var transitionErr *production.ErrInvalidTaskTransition
	require.ErrorAs(t, err, &transitionErr)
}

func TestTask_Complete_FromInProgress(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)
	require.NoError(t, task.Start("maria"))

	err := task.Complete("maria")

	require.NoError(t, err)
	assert.True(t, task.IsCompleted())
	assert.Equal(t, "maria", task.CompletedBy())
	assert.NotNil(t, task.CompletedAt())
}

func TestTask_Complete_FromPending(t *testing.T) {
	// Shop floor reports a small task done without having started it first
	task := newStageTask(t, production.TaskTypeTechSpec)

	err := task.Complete("maria")

	require.NoError(t, err)
	assert.True(t, task.IsCompleted())
}

func TestTask_Complete_RejectsBlocked(t *testing.T) {
	task := newStageTask(t, production.TaskTypeSewing)

	err := task.Complete("maria")

	var transitionErr *production.ErrInvalidTaskTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, production.TaskStatusBlocked, task.Status())
}

func TestTask_Complete_Idempotency(t *testing.T) {
	task := newStageTask(t, production.TaskTypeTechSpec)
	require.NoError(t, task.Complete("maria"))
	firstCompletedAt := *task.CompletedAt()

	err := task.Complete("olga")

	var alreadyErr *production.ErrTaskAlreadyCompleted
	require.ErrorAs(t, err, &alreadyErr)
	// First completion remains untouched
	assert.Equal(t, "maria", task.CompletedBy())
	assert.Equal(t, firstCompletedAt, *task.CompletedAt())
}

func TestTask_DependenciesSatisfied(t *testing.T) {
	task := newStageTask(t, production.TaskTypeQC)

	assert.False(t, task.DependenciesSatisfied(map[production.TaskType]bool{}))
	assert.False(t, task.DependenciesSatisfied(map[production.TaskType]bool{
		production.TaskTypeCutting: true,
	}))
	assert.True(t, task.DependenciesSatisfied(map[production.TaskType]bool{
		production.TaskTypeSewing: true,
	}))
}

func TestReconstituteTask_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	qty := 25
	actual := 24

	task := production.ReconstituteTask(
		"task-1", "order-1", "ORD-001",
		production.TaskTypeSewing, production.RoleBrigadeLeader,
		production.TaskStatusInProgress, production.TaskPriorityHigh,
		50, 0, &qty, &actual,
		now.AddDate(0, 0, 4),
		[]production.TaskType{production.TaskTypeCutting},
		production.TaskTypeQC,
		"note", "maria", "",
		now, &now, nil, 3,
	)

	assert.Equal(t, "task-1", task.ID())
	assert.Equal(t, production.TaskStatusInProgress, task.Status())
	assert.Equal(t, production.TaskTypeQC, task.AutoNext())
	assert.Equal(t, 3, task.Version())
	assert.Equal(t, 24, *task.ActualQuantity())
}
