package settlement

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MetadataKind discriminates the two callback flows carried in the gateway
// metadata bag
type MetadataKind string

const (
	MetadataKindOrderSettlement     MetadataKind = "ORDER_SETTLEMENT"
	MetadataKindSubscriptionRenewal MetadataKind = "SUBSCRIPTION_RENEWAL"
)

// OrderSettlementMetadata identifies the order a charge settles
type OrderSettlementMetadata struct {
	OrderID      uuid.UUID `json:"order_id"`
	Partial      bool      `json:"partial"`
	ReferralCode string    `json:"referral_code,omitempty"`
}

// SubscriptionRenewalMetadata identifies a seller plan renewal charge
type SubscriptionRenewalMetadata struct {
	SellerID uuid.UUID `json:"seller_id"`
	PlanCode string    `json:"plan_code"`
	Months   int       `json:"months"`
}

// CallbackMetadata is the validated tagged union of the two metadata shapes.
// Exactly one of Order and Subscription is set, matching Kind.
type CallbackMetadata struct {
	Kind         MetadataKind
	Order        *OrderSettlementMetadata
	Subscription *SubscriptionRenewalMetadata
}

// rawMetadata covers both shapes for discrimination by which fields are present
type rawMetadata struct {
	OrderID      string `json:"order_id"`
	Partial      bool   `json:"partial"`
	ReferralCode string `json:"referral_code"`
	SellerID     string `json:"seller_id"`
	PlanCode     string `json:"plan_code"`
	Months       int    `json:"months"`
}

// ParseCallbackMetadata validates the untyped metadata bag at the boundary
// and dispatches on the fields present. A bag matching neither shape, or an
// unparsable identifier, fails with ErrInvalidMetadata before any state is
// touched.
func ParseCallbackMetadata(raw json.RawMessage) (*CallbackMetadata, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty metadata", ErrInvalidMetadata)
	}

	var m rawMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	switch {
	case m.OrderID != "":
		orderID, err := uuid.Parse(m.OrderID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad order_id %q", ErrInvalidMetadata, m.OrderID)
		}
		return &CallbackMetadata{
			Kind: MetadataKindOrderSettlement,
			Order: &OrderSettlementMetadata{
				OrderID:      orderID,
				Partial:      m.Partial,
				ReferralCode: m.ReferralCode,
			},
		}, nil

	case m.SellerID != "" && m.PlanCode != "":
		sellerID, err := uuid.Parse(m.SellerID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad seller_id %q", ErrInvalidMetadata, m.SellerID)
		}
		months := m.Months
		if months <= 0 {
			months = 1
		}
		return &CallbackMetadata{
			Kind: MetadataKindSubscriptionRenewal,
			Subscription: &SubscriptionRenewalMetadata{
				SellerID: sellerID,
				PlanCode: m.PlanCode,
				Months:   months,
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: neither order_id nor seller_id/plan_code present", ErrInvalidMetadata)
	}
}
