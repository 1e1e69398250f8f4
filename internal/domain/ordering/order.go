package ordering

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT" // Awaiting first payment
	OrderStatusProcessing     OrderStatus = "PROCESSING"      // Paid (fully or partially), being fulfilled
	OrderStatusCancelled      OrderStatus = "CANCELLED"       // Cancelled, no further settlement allowed
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusProcessing, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanSettle returns true if payments can be applied in this status
func (s OrderStatus) CanSettle() bool {
	return s == OrderStatusPendingPayment || s == OrderStatusProcessing
}

// OrderItem represents a purchased line within the Order aggregate,
// stored as JSONB
type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderItems is a slice of OrderItem that implements GORM Scanner/Valuer for JSONB storage
type OrderItems []OrderItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = OrderItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan OrderItems: unsupported type")
	}

	if len(bytes) == 0 {
		*o = OrderItems{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Order represents a marketplace order aggregate root.
// Financial fields move only through ApplyPayment; the invariant
// AmountPaid + BalanceDue == TotalAmount holds after every mutation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber         string          `json:"order_number"`
	SellerID            uuid.UUID       `json:"seller_id"`
	BuyerID             uuid.UUID       `json:"buyer_id"`
	BuyerName           string          `json:"buyer_name"`
	BuyerEmail          string          `json:"buyer_email"`
	SellerName          string          `json:"seller_name"`
	SellerEmail         string          `json:"seller_email"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	AmountPaid          decimal.Decimal `json:"amount_paid"`
	BalanceDue          decimal.Decimal `json:"balance_due"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	PlatformFee         decimal.Decimal `json:"platform_fee"`
	Status              OrderStatus     `json:"status"`
	Items               OrderItems      `json:"items"`
	IsDirectFulfillment bool            `json:"is_direct_fulfillment"`
	ReferralCode        string          `json:"referral_code"` // Attribution cookie captured at checkout, empty if none
}

// NewOrder creates a new order awaiting payment
func NewOrder(
	orderNumber string,
	sellerID, buyerID uuid.UUID,
	totalAmount, subtotal, platformFee decimal.Decimal,
	items OrderItems,
	isDirectFulfillment bool,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if platformFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Platform fee cannot be negative")
	}

	return &Order{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		OrderNumber:         orderNumber,
		SellerID:            sellerID,
		BuyerID:             buyerID,
		TotalAmount:         totalAmount,
		AmountPaid:          decimal.Zero,
		BalanceDue:          totalAmount,
		Subtotal:            subtotal,
		PlatformFee:         platformFee,
		Status:              OrderStatusPendingPayment,
		Items:               items,
		IsDirectFulfillment: isDirectFulfillment,
	}, nil
}

// IsFullyPaid returns true once the balance due has reached zero
func (o *Order) IsFullyPaid() bool {
	return o.BalanceDue.LessThanOrEqual(decimal.Zero)
}

// ApplyPayment applies a confirmed gateway payment to the order.
// For non-partial payments the paid amount must cover the order total
// (rounded to whole units); underpayment is rejected so it cannot be
// silently accepted as settlement.
func (o *Order) ApplyPayment(reference string, amount decimal.Decimal, partial bool) error {
	if !o.Status.CanSettle() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot settle order in %s status", o.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !partial && amount.Round(0).LessThan(o.TotalAmount.Round(0)) {
		return shared.NewDomainError("AMOUNT_MISMATCH",
			fmt.Sprintf("Paid amount %s does not cover order total %s", amount.String(), o.TotalAmount.String()))
	}

	o.AmountPaid = o.AmountPaid.Add(amount)
	o.BalanceDue = o.TotalAmount.Sub(o.AmountPaid)

	if o.IsFullyPaid() || partial {
		o.Status = OrderStatusProcessing
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderSettledEvent(o, reference, amount, partial))

	return nil
}
