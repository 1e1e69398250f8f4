package ordering

import (
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeOrderSettled is the event type name for OrderSettledEvent
const EventTypeOrderSettled = "OrderSettled"

// OrderSettledEvent is raised when a confirmed payment has been applied to an
// order. It carries everything the side-effect handlers need so they never
// have to re-read order state after the settlement transaction commits.
type OrderSettledEvent struct {
	shared.BaseDomainEvent
	OrderID             uuid.UUID       `json:"order_id"`
	OrderNumber         string          `json:"order_number"`
	Reference           string          `json:"reference"`
	PaymentAmount       decimal.Decimal `json:"payment_amount"`
	Partial             bool            `json:"partial"`
	FullyPaid           bool            `json:"fully_paid"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	AmountPaid          decimal.Decimal `json:"amount_paid"`
	BalanceDue          decimal.Decimal `json:"balance_due"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	PlatformFee         decimal.Decimal `json:"platform_fee"`
	IsDirectFulfillment bool            `json:"is_direct_fulfillment"`
	BuyerID             uuid.UUID       `json:"buyer_id"`
	BuyerName           string          `json:"buyer_name"`
	BuyerEmail          string          `json:"buyer_email"`
	SellerID            uuid.UUID       `json:"seller_id"`
	SellerName          string          `json:"seller_name"`
	SellerEmail         string          `json:"seller_email"`
	ReferralCode        string          `json:"referral_code,omitempty"`
	Items               OrderItems      `json:"items"`
}

// EventType returns the event type name
func (e *OrderSettledEvent) EventType() string {
	return EventTypeOrderSettled
}

// NewOrderSettledEvent creates a new OrderSettledEvent
func NewOrderSettledEvent(o *Order, reference string, amount decimal.Decimal, partial bool) *OrderSettledEvent {
	return &OrderSettledEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent("OrderSettled", "Order", o.ID),
		OrderID:             o.ID,
		OrderNumber:         o.OrderNumber,
		Reference:           reference,
		PaymentAmount:       amount,
		Partial:             partial,
		FullyPaid:           o.IsFullyPaid(),
		TotalAmount:         o.TotalAmount,
		AmountPaid:          o.AmountPaid,
		BalanceDue:          o.BalanceDue,
		Subtotal:            o.Subtotal,
		PlatformFee:         o.PlatformFee,
		IsDirectFulfillment: o.IsDirectFulfillment,
		BuyerID:             o.BuyerID,
		BuyerName:           o.BuyerName,
		BuyerEmail:          o.BuyerEmail,
		SellerID:            o.SellerID,
		SellerName:          o.SellerName,
		SellerEmail:         o.SellerEmail,
		ReferralCode:        o.ReferralCode,
		Items:               o.Items,
	}
}
