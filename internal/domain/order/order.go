package order

import (
	"fmt"
	"time"
)

// Status represents the order lifecycle. The task engine only moves orders
// into production at generation time and to ready_for_delivery when the
// packaging task completes; everything else belongs to order management.
type Status string

const (
	StatusPending          Status = "pending"
	StatusInProduction     Status = "in_production"
	StatusCompleted        Status = "completed"
	StatusReadyForDelivery Status = "ready_for_delivery"
)

// ErrInvalidOrderTransition indicates an invalid order status transition
type ErrInvalidOrderTransition struct {
	OrderID string
	From    Status
	To      Status
}

func (e *ErrInvalidOrderTransition) Error() string {
	return fmt.Sprintf("invalid order transition for %s: %s -> %s", e.OrderID, e.From, e.To)
}

// ErrOrderNotFound indicates a referenced order does not exist
type ErrOrderNotFound struct {
	OrderID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %s", e.OrderID)
}

// Order is the production order the task engine works against. The engine
// reads the fields needed for effort estimation and writes status
// transitions; everything else is owned by the order-management side.
type Order struct {
	id                string
	orderNumber       string
	customer          string
	quantity          int
	unitPrice         float64
	fabricConsumption float64
	deliveryDate      *time.Time
	advancePayment    float64
	status            Status
	createdAt         time.Time
	updatedAt         time.Time
}

// NewOrder creates a pending order.
func NewOrder(id, orderNumber, customer string, quantity int) *Order {
	now := time.Now().UTC()
	return &Order{
		id:          id,
		orderNumber: orderNumber,
		customer:    customer,
		quantity:    quantity,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}
}

// Getters

func (o *Order) ID() string                 { return o.id }
func (o *Order) OrderNumber() string        { return o.orderNumber }
func (o *Order) Customer() string           { return o.customer }
func (o *Order) Quantity() int              { return o.quantity }
func (o *Order) UnitPrice() float64         { return o.unitPrice }
func (o *Order) FabricConsumption() float64 { return o.fabricConsumption }
func (o *Order) DeliveryDate() *time.Time   { return o.deliveryDate }
func (o *Order) AdvancePayment() float64    { return o.advancePayment }
func (o *Order) Status() Status             { return o.status }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) UpdatedAt() time.Time       { return o.updatedAt }

// Setters for fields owned by order management; kept so the persistence
// adapter can round-trip the full record.

func (o *Order) SetUnitPrice(p float64)         { o.unitPrice = p }
func (o *Order) SetFabricConsumption(f float64) { o.fabricConsumption = f }
func (o *Order) SetDeliveryDate(d *time.Time)   { o.deliveryDate = d }
func (o *Order) SetAdvancePayment(a float64)    { o.advancePayment = a }

// StartProduction moves a pending order into production. Called when the task
// chain is generated.
func (o *Order) StartProduction() error {
	if o.status != StatusPending {
		return &ErrInvalidOrderTransition{OrderID: o.id, From: o.status, To: StatusInProduction}
	}
	o.status = StatusInProduction
	o.updatedAt = time.Now().UTC()
	return nil
}

// MarkCompleted records that production finished.
func (o *Order) MarkCompleted() error {
	if o.status != StatusInProduction {
		return &ErrInvalidOrderTransition{OrderID: o.id, From: o.status, To: StatusCompleted}
	}
	o.status = StatusCompleted
	o.updatedAt = time.Now().UTC()
	return nil
}

// MarkReadyForDelivery is set when the packaging task completes.
func (o *Order) MarkReadyForDelivery() error {
	if o.status != StatusInProduction && o.status != StatusCompleted {
		return &ErrInvalidOrderTransition{OrderID: o.id, From: o.status, To: StatusReadyForDelivery}
	}
	o.status = StatusReadyForDelivery
	o.updatedAt = time.Now().UTC()
	return nil
}

// ReconstituteOrder rebuilds an order from persisted data (repository use only).
func ReconstituteOrder(
	id string,
	orderNumber string,
	customer string,
	quantity int,
	unitPrice float64,
	fabricConsumption float64,
	deliveryDate *time.Time,
	advancePayment float64,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) *Order {
	return &Order{
		id:                id,
		orderNumber:       orderNumber,
		customer:          customer,
		quantity:          quantity,
		unitPrice:         unitPrice,
		fabricConsumption: fabricConsumption,
		deliveryDate:      deliveryDate,
		advancePayment:    advancePayment,
		status:            status,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}
