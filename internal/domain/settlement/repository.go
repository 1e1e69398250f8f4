package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/ordering"
)

// PaymentRepository defines read access to recorded payments
type PaymentRepository interface {
	// ExistsByReference reports whether a payment for the reference has been
	// recorded. Used as the pre-transaction idempotency check; the unique
	// constraint inside the settlement transaction remains authoritative.
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	// FindByReference retrieves a payment by gateway reference, nil if not found
	FindByReference(ctx context.Context, reference string) (*Payment, error)
	// FindByOrderID retrieves all payments recorded against an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)
	// Save persists a standalone payment record (subscription renewals)
	Save(ctx context.Context, payment *Payment) error
}

// SettlementStore executes the atomic settlement unit: insert the payment,
// apply the order mutation under optimistic lock, and stage the order's
// domain events in the outbox, all in one database transaction.
type SettlementStore interface {
	// Settle persists payment + order + outbox events atomically.
	// Returns ErrDuplicateReference if the reference was already recorded
	// (concurrent duplicate delivery) and shared.ErrConcurrencyConflict if
	// the order version moved underneath the caller.
	Settle(ctx context.Context, order *ordering.Order, payment *Payment) error
}
