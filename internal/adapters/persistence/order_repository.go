package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avasylenko/stitchflow/internal/domain/order"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := orderToModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update saves changes to an existing order
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := orderToModel(o)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by its ID. Returns (nil, nil) when absent.
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	var model OrderModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}
	return modelToOrder(&model), nil
}

// FindAll retrieves every order, createdAt ascending
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	var models []OrderModel
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find orders: %w", result.Error)
	}
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = modelToOrder(&models[i])
	}
	return orders, nil
}

func orderToModel(o *order.Order) *OrderModel {
	return &OrderModel{
		ID:                o.ID(),
		OrderNumber:       o.OrderNumber(),
		Customer:          o.Customer(),
		Quantity:          o.Quantity(),
		UnitPrice:         o.UnitPrice(),
		FabricConsumption: o.FabricConsumption(),
		DeliveryDate:      o.DeliveryDate(),
		AdvancePayment:    o.AdvancePayment(),
		Status:            string(o.Status()),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func modelToOrder(m *OrderModel) *order.Order {
	return order.ReconstituteOrder(
		m.ID,
		m.OrderNumber,
		m.Customer,
		m.Quantity,
		m.UnitPrice,
		m.FabricConsumption,
		m.DeliveryDate,
		m.AdvancePayment,
		order.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
