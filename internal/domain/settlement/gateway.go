package settlement

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ChargeSuccessEvent is the only webhook event that triggers settlement.
// All other events are acknowledged without action.
const ChargeSuccessEvent = "charge.success"

// CallbackEnvelope is the JSON body of an inbound gateway notification.
// It is an unauthenticated hint: nothing in it is trusted for money movement
// until the reference has been re-verified against the gateway.
type CallbackEnvelope struct {
	Event string       `json:"event"`
	Data  CallbackData `json:"data"`
}

// CallbackData is the payload section of a gateway notification
type CallbackData struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	Metadata        json.RawMessage `json:"metadata"`
	Amount          decimal.Decimal `json:"amount"`
	Channel         string          `json:"channel"`
	Status          string          `json:"status"`
	GatewayResponse string          `json:"gateway_response"`
}

// VerifiedTransaction is the authoritative transaction record returned by the
// gateway's server-to-server verify endpoint. Only this, never the inbound
// notification, is trusted for settlement amounts.
type VerifiedTransaction struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Channel         string          `json:"channel"`
	GatewayResponse string          `json:"gateway_response"`
	Metadata        json.RawMessage `json:"metadata"`
}

// IsSuccess returns true if the gateway confirmed the charge
func (t *VerifiedTransaction) IsSuccess() bool {
	return t.Status == "success"
}

// PaymentGateway is the port to the external payment gateway
type PaymentGateway interface {
	// VerifySignature checks the webhook signature over the exact raw body.
	// It must be called before the body is parsed; returns ErrInvalidSignature
	// on mismatch.
	VerifySignature(rawBody []byte, signature string) error

	// VerifyTransaction calls the gateway's verify endpoint for a reference
	// using the server-held credential. Bounded timeout with at most one
	// retry; returns ErrVerificationFailed on exhaustion or a negative
	// verification result.
	VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error)
}
