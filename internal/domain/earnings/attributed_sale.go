package earnings

import (
	"context"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Partner is a referring partner identified by a platform-assigned short code
type Partner struct {
	shared.BaseEntity
	ShortCode string `json:"short_code"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// AttributedSale links a settled order to the partner whose referral code was
// present at checkout, with the commission accrued for it
type AttributedSale struct {
	shared.BaseEntity
	PartnerID        uuid.UUID       `json:"partner_id"`
	OrderID          uuid.UUID       `json:"order_id"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

// NewAttributedSale creates the attribution record for a settled order
func NewAttributedSale(partnerID, orderID uuid.UUID, saleAmount, rate decimal.Decimal) *AttributedSale {
	return &AttributedSale{
		BaseEntity:       shared.NewBaseEntity(),
		PartnerID:        partnerID,
		OrderID:          orderID,
		SaleAmount:       saleAmount,
		CommissionRate:   rate,
		CommissionAmount: saleAmount.Mul(rate),
	}
}

// PartnerRepository defines persistence for partners and their earnings
type PartnerRepository interface {
	// FindByShortCode resolves a referral code to a partner, nil if unknown
	FindByShortCode(ctx context.Context, shortCode string) (*Partner, error)
	// RecordAttributedSale persists the attribution and increments the
	// partner's earnings balances in one transaction
	RecordAttributedSale(ctx context.Context, sale *AttributedSale) error
}
