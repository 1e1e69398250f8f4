package settlement

import "errors"

// Settlement pipeline errors. Everything before the settlement transaction
// commits is fail-closed; these sentinels drive the HTTP status mapping at
// the webhook boundary.
var (
	// ErrInvalidSignature indicates the webhook body was not signed with the
	// configured secret. The body must not be parsed after this.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrVerificationFailed indicates the gateway's verify endpoint reported
	// failure or was unreachable after the retry budget.
	ErrVerificationFailed = errors.New("gateway transaction verification failed")

	// ErrDuplicateReference indicates the reference was already settled.
	// Treated as success at the webhook boundary, never surfaced as an error.
	ErrDuplicateReference = errors.New("transaction reference already processed")

	// ErrOrderNotFound indicates the callback metadata referenced an unknown
	// order, which points at a data-consistency problem upstream.
	ErrOrderNotFound = errors.New("order not found for settlement")

	// ErrInvalidMetadata indicates the callback metadata matched neither the
	// order-settlement nor the subscription-renewal shape.
	ErrInvalidMetadata = errors.New("unrecognized callback metadata")
)
