package persistence

import (
	"time"
)

// ProductionTaskModel represents the production_tasks table
type ProductionTaskModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	OrderID     string `gorm:"column:order_id;not null;index"`
	OrderNumber string `gorm:"column:order_number;not null"`

	TaskType     string `gorm:"column:task_type;not null"`
	AssignedRole string `gorm:"column:assigned_role;not null;index"`
	Status       string `gorm:"column:status;not null;index"`
	Priority     string `gorm:"column:priority;not null"`

	EstimatedHours float64 `gorm:"column:estimated_hours;not null"`
	ActualHours    float64 `gorm:"column:actual_hours;not null;default:0"`
	TargetQuantity *int    `gorm:"column:target_quantity"`
	ActualQuantity *int    `gorm:"column:actual_quantity"`

	DueDate  time.Time `gorm:"column:due_date;not null"`
	AutoNext *string   `gorm:"column:auto_next"`

	Notes       *string `gorm:"column:notes"`
	StartedBy   *string `gorm:"column:started_by"`
	CompletedBy *string `gorm:"column:completed_by"`

	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`

	// Optimistic concurrency token; every update is guarded on it
	Version int `gorm:"column:version;not null;default:0"`
}

func (ProductionTaskModel) TableName() string {
	return "production_tasks"
}

// TaskDependencyModel represents the production_task_dependencies table.
// Dependencies are stage types, not task IDs: the invariant is "the sibling
// task of this type for the same order must be completed".
type TaskDependencyModel struct {
	TaskID        string `gorm:"column:task_id;primaryKey"`
	DependsOnType string `gorm:"column:depends_on_type;primaryKey"`
}

func (TaskDependencyModel) TableName() string {
	return "production_task_dependencies"
}

// OrderModel represents the orders table
type OrderModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	OrderNumber       string     `gorm:"column:order_number;unique;not null"`
	Customer          string     `gorm:"column:customer"`
	Quantity          int        `gorm:"column:quantity;not null"`
	UnitPrice         float64    `gorm:"column:unit_price;not null;default:0"`
	FabricConsumption float64    `gorm:"column:fabric_consumption;not null;default:0"`
	DeliveryDate      *time.Time `gorm:"column:delivery_date"`
	AdvancePayment    float64    `gorm:"column:advance_payment;not null;default:0"`
	Status            string     `gorm:"column:status;not null;index"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}
