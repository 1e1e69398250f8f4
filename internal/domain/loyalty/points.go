package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reason codes recorded with each accrual
const (
	ReasonBuyerPurchase = "BUYER_PURCHASE"
	ReasonSellerSale    = "SELLER_SALE"
)

// PointsLedger is the port to the append-only points accrual service.
// Award is fire-and-forget from the settlement pipeline's perspective, but
// callers wrap it so the same logical grant is never delivered twice.
type PointsLedger interface {
	Award(ctx context.Context, userID uuid.UUID, points int64, reasonCode string, metadata map[string]string) error
}

// PointsForAmount computes accrued points for a settled amount:
// floor(amount / 10 * perTenUnits). A non-positive multiplier yields zero.
func PointsForAmount(amount decimal.Decimal, perTenUnits int64) int64 {
	if perTenUnits <= 0 || amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return amount.Div(decimal.NewFromInt(10)).
		Mul(decimal.NewFromInt(perTenUnits)).
		Floor().
		IntPart()
}
