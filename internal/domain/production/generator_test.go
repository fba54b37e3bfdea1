package production_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
)

func TestGenerator_GeneratesFullChain(t *testing.T) {
	// Arrange
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	gen := production.NewGenerator(production.DefaultCatalog(), clock, 8)
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

	// Act
	tasks, err := gen.Generate(o)

	// Assert
	require.NoError(t, err)
	require.Len(t, tasks, 7)

	// First stage pending, all later stages blocked
	assert.Equal(t, production.TaskStatusPending, tasks[0].Status())
	for _, task := range tasks[1:] {
		assert.Equal(t, production.TaskStatusBlocked, task.Status())
	}

	// Chain topology carried onto each task
	assert.Equal(t, production.TaskTypeTechSpec, tasks[0].Type())
	assert.Equal(t, production.TaskTypePackaging, tasks[6].Type())
	for i := 1; i < len(tasks); i++ {
		assert.Equal(t, []production.TaskType{tasks[i-1].Type()}, tasks[i].Dependencies())
		assert.Equal(t, tasks[i].Type(), tasks[i-1].AutoNext())
	}
	assert.Empty(t, tasks[6].AutoNext())

	// Quantity only on quantity-bearing stages
	assert.Nil(t, tasks[0].TargetQuantity())  // tech_spec
	assert.Nil(t, tasks[1].TargetQuantity())  // procurement
	require.NotNil(t, tasks[3].TargetQuantity()) // sewing
	assert.Equal(t, 25, *tasks[3].TargetQuantity())

	// Every task belongs to the order
	for _, task := range tasks {
		assert.Equal(t, "order-1", task.OrderID())
		assert.Equal(t, "ORD-001", task.OrderNumber())
		assert.Equal(t, start, task.CreatedAt())
	}
}

func TestGenerator_EstimatedHours(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	gen := production.NewGenerator(production.DefaultCatalog(), clock, 8)
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

	tasks, err := gen.Generate(o)
	require.NoError(t, err)

	want := []float64{2, 4, 13, 50, 7, 1, 3}
	for i, task := range tasks {
		assert.Equal(t, want[i], task.EstimatedHours(), "stage %s", task.Type())
	}
}

func TestGenerator_DueDates(t *testing.T) {
	// 8h workdays: due day = ceil((index*8 + estimate) / 8)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	gen := production.NewGenerator(production.DefaultCatalog(), clock, 8)
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

	tasks, err := gen.Generate(o)
	require.NoError(t, err)

	// tech_spec: ceil(2/8)=1, procurement: ceil(12/8)=2, cutting: ceil(29/8)=4,
	// sewing: ceil(74/8)=10, qc: ceil(39/8)=5, final_check: ceil(41/8)=6,
	// packaging: ceil(51/8)=7
	wantDays := []int{1, 2, 4, 10, 5, 6, 7}
	for i, task := range tasks {
		assert.Equal(t, start.AddDate(0, 0, wantDays[i]), task.DueDate(), "stage %s", task.Type())
	}
}

func TestGenerator_BranchDueDate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	gen := production.NewGenerator(production.DefaultCatalog(), shared.NewMockClock(start), 8)

	// 3h of rework fits one workday; 20h takes three
	assert.Equal(t, start.AddDate(0, 0, 1), gen.BranchDueDate(start, 3))
	assert.Equal(t, start.AddDate(0, 0, 3), gen.BranchDueDate(start, 20))
}

func TestGenerator_RejectsInvalidOrders(t *testing.T) {
	gen := production.NewGenerator(production.DefaultCatalog(), shared.NewMockClock(time.Time{}), 8)

	_, err := gen.Generate(nil)
	assert.Error(t, err)

	_, err = gen.Generate(order.NewOrder("order-1", "ORD-001", "Atelier Nord", 0))
	assert.Error(t, err)

	_, err = gen.Generate(order.NewOrder("", "ORD-001", "Atelier Nord", 25))
	assert.Error(t, err)
}
