package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a recorded payment
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment is the immutable record of one settled gateway transaction.
// Reference is globally unique; the unique constraint on it is the
// correctness mechanism for at-most-once settlement per reference.
type Payment struct {
	shared.BaseEntity
	OrderID         *uuid.UUID      `json:"order_id,omitempty"` // nil for subscription renewal payments
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"`
	Channel         string          `json:"channel"`
	Status          PaymentStatus   `json:"status"`
	GatewayResponse string          `json:"gateway_response"`
	PaymentDate     time.Time       `json:"payment_date"`
	Partial         bool            `json:"partial"`
}

// NewCompletedPayment creates the payment record for a verified, settled transaction
func NewCompletedPayment(orderID *uuid.UUID, reference, channel, gatewayResponse string, amount decimal.Decimal, partial bool) (*Payment, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Gateway reference cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	return &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         orderID,
		Reference:       reference,
		Amount:          amount,
		Channel:         channel,
		Status:          PaymentStatusCompleted,
		GatewayResponse: gatewayResponse,
		PaymentDate:     time.Now(),
		Partial:         partial,
	}, nil
}
