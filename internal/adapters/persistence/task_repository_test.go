package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasylenko/stitchflow/internal/adapters/persistence"
	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/test/helpers"
)

func sewingTask(t *testing.T, createdAt time.Time) *production.Task {
	t.Helper()
	catalog := production.DefaultCatalog()
	stage, ok := catalog.StageFor(production.TaskTypeSewing)
	require.True(t, ok)
	return production.NewTask(stage, "order-1", "ORD-001", 25,
		catalog.EstimateHours(production.TaskTypeSewing, 25),
		createdAt.AddDate(0, 0, 4), createdAt)
}

func TestTaskRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := sewingTask(t, now)

	// Act
	err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), task.ID())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, task.ID(), found.ID())
	assert.Equal(t, production.TaskTypeSewing, found.Type())
	assert.Equal(t, production.RoleBrigadeLeader, found.Role())
	assert.Equal(t, production.TaskStatusBlocked, found.Status())
	assert.Equal(t, production.TaskPriorityHigh, found.Priority())
	assert.Equal(t, float64(50), found.EstimatedHours())
	require.NotNil(t, found.TargetQuantity())
	assert.Equal(t, 25, *found.TargetQuantity())
	assert.Equal(t, []production.TaskType{production.TaskTypeCutting}, found.Dependencies())
	assert.Equal(t, production.TaskTypeQC, found.AutoNext())
	assert.True(t, found.DueDate().Equal(task.DueDate()))
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)

	found, err := repo.FindByID(context.Background(), "no-such-task")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTaskRepository_CreateBatch_AllOrNothing(t *testing.T) {
	// Arrange - a batch where the last insert collides with an existing row
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	existing := sewingTask(t, now)
	require.NoError(t, repo.Create(context.Background(), existing))

	fresh := sewingTask(t, now.Add(time.Hour))

	// Act
	err := repo.CreateBatch(context.Background(), []*production.Task{fresh, existing})

	// Assert - the conflict rolls the whole batch back
	require.Error(t, err)
	found, err := repo.FindByID(context.Background(), fresh.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestTaskRepository_Update_PersistsMutationsAndBumpsVersion(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := sewingTask(t, now)
	require.NoError(t, repo.Create(context.Background(), task))

	require.NoError(t, task.Unblock())
	require.NoError(t, task.Start("maria"))
	err := repo.Update(context.Background(), task)

	require.NoError(t, err)
	assert.Equal(t, 1, task.Version())
	found, err := repo.FindByID(context.Background(), task.ID())
	require.NoError(t, err)
	assert.Equal(t, production.TaskStatusInProgress, found.Status())
	assert.Equal(t, "maria", found.StartedBy())
	assert.Equal(t, 1, found.Version())
}

func TestTaskRepository_Update_StaleVersionRejected(t *testing.T) {
	// Two snapshots of one task: the second write loses the race
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	task := sewingTask(t, now)
	require.NoError(t, repo.Create(context.Background(), task))

	snapshotA, err := repo.FindByID(context.Background(), task.ID())
	require.NoError(t, err)
	snapshotB, err := repo.FindByID(context.Background(), task.ID())
	require.NoError(t, err)

	require.NoError(t, snapshotA.Unblock())
	require.NoError(t, repo.Update(context.Background(), snapshotA))

	require.NoError(t, snapshotB.Unblock())
	err = repo.Update(context.Background(), snapshotB)

	var staleErr *production.ErrStaleTask
	require.ErrorAs(t, err, &staleErr)
	assert.Equal(t, task.ID(), staleErr.TaskID)
}

func TestTaskRepository_FindByOrderAndType_MostRecentWins(t *testing.T) {
	// Rework tasks recur; the lookup must return the latest round
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	catalog := production.DefaultCatalog()
	stage, _ := catalog.StageFor(production.TaskTypeRework)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	first := production.NewBranchTask(stage, "order-1", "ORD-001", 3, 3, now.AddDate(0, 0, 1), now)
	second := production.NewBranchTask(stage, "order-1", "ORD-001", 1, 1, now.AddDate(0, 0, 2), now.Add(2*time.Hour))
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))

	found, err := repo.FindByOrderAndType(context.Background(), "order-1", production.TaskTypeRework)

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, second.ID(), found.ID())
}

func TestTaskRepository_FindActiveByRole_ExcludesCompleted(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTaskRepository(db)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	active := sewingTask(t, now)
	done := sewingTask(t, now.Add(time.Hour))
	require.NoError(t, done.Unblock())
	require.NoError(t, done.Complete("maria"))
	require.NoError(t, repo.Create(context.Background(), active))
	require.NoError(t, repo.Create(context.Background(), done))

	found, err := repo.FindActiveByRole(context.Background(), production.RoleBrigadeLeader)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID(), found[0].ID())
}
