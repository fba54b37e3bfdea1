package order

import "context"

// Repository handles persistence of production orders.
// FindByID returns (nil, nil) when the order does not exist.
type Repository interface {
	Create(ctx context.Context, o *Order) error

	Update(ctx context.Context, o *Order) error

	FindByID(ctx context.Context, id string) (*Order, error)

	FindAll(ctx context.Context) ([]*Order, error)
}
