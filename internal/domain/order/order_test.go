package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasylenko/stitchflow/internal/domain/order"
)

func TestNewOrder_StartsPending(t *testing.T) {
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

	assert.Equal(t, order.StatusPending, o.Status())
	assert.Equal(t, "ORD-001", o.OrderNumber())
	assert.Equal(t, 25, o.Quantity())
}

func TestOrder_StartProduction(t *testing.T) {
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

	err := o.StartProduction()

	require.NoError(t, err)
	assert.Equal(t, order.StatusInProduction, o.Status())
}

func TestOrder_StartProduction_RejectsNonPending(t *testing.T) {
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)
	require.NoError(t, o.StartProduction())

	err := o.StartProduction()

	var transitionErr *order.ErrInvalidOrderTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.StatusInProduction, transitionErr.From)
}

func TestOrder_MarkCompleted(t *testing.T) {
	o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)
	require.NoError(t, o.StartProduction())

	err := o.MarkCompleted()

	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, o.Status())
}

func TestOrder_MarkReadyForDelivery(t *testing.T) {
	t.Run("from in_production", func(t *testing.T) {
		o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)
		require.NoError(t, o.StartProduction())

		require.NoError(t, o.MarkReadyForDelivery())
		assert.Equal(t, order.StatusReadyForDelivery, o.Status())
	})

	t.Run("from completed", func(t *testing.T) {
		o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)
		require.NoError(t, o.StartProduction())
		require.NoError(t, o.MarkCompleted())

		require.NoError(t, o.MarkReadyForDelivery())
		assert.Equal(t, order.StatusReadyForDelivery, o.Status())
	})

	t.Run("rejected from pending", func(t *testing.T) {
		o := order.NewOrder("order-1", "ORD-001", "Atelier Nord", 25)

		err := o.MarkReadyForDelivery()

		var transitionErr *order.ErrInvalidOrderTransition
		require.ErrorAs(t, err, &transitionErr)
	})
}
