package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/production"
)

// GormUnitOfWork runs workflow mutations inside one database transaction.
// The repositories handed to fn are bound to that transaction; any error
// rolls the whole batch back.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over the given connection
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do executes fn within a transaction
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tasks production.TaskRepository, orders order.Repository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormTaskRepository(tx), NewGormOrderRepository(tx))
	})
}
