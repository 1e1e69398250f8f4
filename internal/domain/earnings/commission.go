package earnings

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRateResolver resolves the commission rate for a partner's
// attributed sale. The real campaign lookup lives in a separate system; this
// port keeps it an external collaborator rather than guessing its logic.
type CommissionRateResolver interface {
	ResolveRate(ctx context.Context, partnerID, orderID uuid.UUID) (decimal.Decimal, error)
}

// StaticCommissionResolver returns a flat rate for every partner.
// Stands in for the campaign service until it is wired up.
type StaticCommissionResolver struct {
	Rate decimal.Decimal
}

// NewStaticCommissionResolver creates a resolver with the given flat rate
func NewStaticCommissionResolver(rate decimal.Decimal) *StaticCommissionResolver {
	return &StaticCommissionResolver{Rate: rate}
}

// ResolveRate returns the configured flat rate
func (r *StaticCommissionResolver) ResolveRate(_ context.Context, _, _ uuid.UUID) (decimal.Decimal, error) {
	return r.Rate, nil
}
