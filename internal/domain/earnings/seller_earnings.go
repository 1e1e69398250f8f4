package earnings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellerEarnings tracks accumulated sale proceeds for one seller.
// Both balances are monotonic: the settlement pipeline only ever increments
// them, payouts are handled elsewhere.
type SellerEarnings struct {
	SellerID       uuid.UUID       `json:"seller_id"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	UnpaidEarnings decimal.Decimal `json:"unpaid_earnings"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SellerEarningsRepository defines accrual operations for seller earnings
type SellerEarningsRepository interface {
	// Accrue atomically increments both earnings balances for a seller,
	// creating the row on first accrual
	Accrue(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) error
	// FindBySellerID retrieves the earnings row, nil if none accrued yet
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*SellerEarnings, error)
}
