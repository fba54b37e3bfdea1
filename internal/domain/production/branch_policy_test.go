package production_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
)

func newBranchPolicy() (*production.BranchPolicy, time.Time) {
	now := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	gen := production.NewGenerator(production.DefaultCatalog(), shared.NewMockClock(now), 8)
	return production.NewBranchPolicy(gen), now
}

func TestBranchPolicy_PlainStagesHaveNoBranch(t *testing.T) {
	policy, now := newBranchPolicy()
	task := newStageTask(t, production.TaskTypeSewing)

	outcome, err := policy.Evaluate(production.BranchContext{Task: task, Now: now})

	require.NoError(t, err)
	assert.Nil(t, outcome.Spawn)
	assert.False(t, outcome.DeferUnlock)
	assert.Empty(t, outcome.Unlock)
}

func TestBranchPolicy_QCWithDefectsSpawnsRework(t *testing.T) {
	// Arrange
	policy, now := newBranchPolicy()
	task := newStageTask(t, production.TaskTypeQC)

	// Act
	outcome, err := policy.Evaluate(production.BranchContext{
		Task: task,
		QC:   &production.QCResults{Passed: 22, ReworkNeeded: 3},
		Now:  now,
	})

	// Assert - a rework task for the defective quantity, final_check held back
	require.NoError(t, err)
	require.NotNil(t, outcome.Spawn)
	assert.True(t, outcome.DeferUnlock)
	assert.Empty(t, outcome.Unlock)

	spawn := outcome.Spawn
	assert.Equal(t, production.TaskTypeRework, spawn.Type())
	assert.Equal(t, production.TaskStatusPending, spawn.Status())
	assert.Equal(t, production.RoleBrigadeLeader, spawn.Role())
	assert.Equal(t, production.TaskPriorityHigh, spawn.Priority())
	assert.Equal(t, task.OrderID(), spawn.OrderID())
	require.NotNil(t, spawn.TargetQuantity())
	assert.Equal(t, 3, *spawn.TargetQuantity())
	assert.Equal(t, float64(3), spawn.EstimatedHours()) // 3 units x 1h, no rounding
	assert.Equal(t, now.AddDate(0, 0, 1), spawn.DueDate())
}

func TestBranchPolicy_QCCleanPassUnlocksNothingExtra(t *testing.T) {
	policy, now := newBranchPolicy()
	task := newStageTask(t, production.TaskTypeQC)

	outcome, err := policy.Evaluate(production.BranchContext{
		Task: task,
		QC:   &production.QCResults{Passed: 25},
		Now:  now,
	})

	// Clean qc lets the regular autoNext unlock proceed
	require.NoError(t, err)
	assert.Nil(t, outcome.Spawn)
	assert.False(t, outcome.DeferUnlock)
	assert.Empty(t, outcome.Unlock)
}

func TestBranchPolicy_QCWithoutResultsFails(t *testing.T) {
	policy, now := newBranchPolicy()
	task := newStageTask(t, production.TaskTypeQC)

	_, err := policy.Evaluate(production.BranchContext{Task: task, Now: now})

	assert.Error(t, err)
}

func TestBranchPolicy_ReworkCompletionSpawnsReinspection(t *testing.T) {
	policy, now := newBranchPolicy()
	catalog := production.DefaultCatalog()
	stage, _ := catalog.StageFor(production.TaskTypeRework)
	task := production.NewBranchTask(stage, "order-1", "ORD-001", 3,
		catalog.EstimateHours(production.TaskTypeRework, 3), now.AddDate(0, 0, 1), now)

	outcome, err := policy.Evaluate(production.BranchContext{Task: task, Now: now})

	require.NoError(t, err)
	require.NotNil(t, outcome.Spawn)
	assert.False(t, outcome.DeferUnlock)
	assert.Equal(t, production.TaskTypeQCRework, outcome.Spawn.Type())
	require.NotNil(t, outcome.Spawn.TargetQuantity())
	assert.Equal(t, 3, *outcome.Spawn.TargetQuantity())
	assert.Equal(t, float64(1), outcome.Spawn.EstimatedHours()) // ceil(3 x 0.25)
}

func TestBranchPolicy_CleanReinspectionReleasesFinalCheck(t *testing.T) {
	policy, now := newBranchPolicy()
	catalog := production.DefaultCatalog()
	stage, _ := catalog.StageFor(production.TaskTypeQCRework)
	task := production.NewBranchTask(stage, "order-1", "ORD-001", 3,
		catalog.EstimateHours(production.TaskTypeQCRework, 3), now.AddDate(0, 0, 1), now)

	outcome, err := policy.Evaluate(production.BranchContext{
		Task: task,
		QC:   &production.QCResults{Passed: 3},
		Now:  now,
	})

	require.NoError(t, err)
	assert.Nil(t, outcome.Spawn)
	assert.Equal(t, production.TaskTypeFinalCheck, outcome.Unlock)
}

func TestBranchPolicy_FailedReinspectionLoopsBack(t *testing.T) {
	policy, now := newBranchPolicy()
	catalog := production.DefaultCatalog()
	stage, _ := catalog.StageFor(production.TaskTypeQCRework)
	task := production.NewBranchTask(stage, "order-1", "ORD-001", 3,
		catalog.EstimateHours(production.TaskTypeQCRework, 3), now.AddDate(0, 0, 1), now)

	outcome, err := policy.Evaluate(production.BranchContext{
		Task: task,
		QC:   &production.QCResults{Passed: 1, ReworkNeeded: 2},
		Now:  now,
	})

	// The loop continues: another rework, final_check still held back
	require.NoError(t, err)
	require.NotNil(t, outcome.Spawn)
	assert.Equal(t, production.TaskTypeRework, outcome.Spawn.Type())
	assert.Equal(t, 2, *outcome.Spawn.TargetQuantity())
	assert.True(t, outcome.DeferUnlock)
	assert.Empty(t, outcome.Unlock)
}
