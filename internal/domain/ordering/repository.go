package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	// FindByID retrieves an order by ID, nil if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// Save persists a new order
	Save(ctx context.Context, order *Order) error
}
