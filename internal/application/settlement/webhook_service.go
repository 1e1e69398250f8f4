package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/seller"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/domain/shared"
)

var (
	// ErrInvalidPayload is returned when a signed callback body cannot be parsed
	ErrInvalidPayload = errors.New("webhook: invalid payload")
	// ErrSellerNotFound is returned when a renewal callback names an unknown seller
	ErrSellerNotFound = errors.New("webhook: seller not found")
)

// WebhookService processes inbound payment gateway notifications. The
// pipeline is fail-closed up to the settlement transaction: signature check,
// envelope parse, server-side verification and metadata validation all reject
// before any state is written. Everything after the commit is logged, never
// rolled back.
type WebhookService struct {
	gateway  settlement.PaymentGateway
	orders   ordering.OrderRepository
	payments settlement.PaymentRepository
	store    settlement.SettlementStore
	sellers  seller.SellerRepository
	logger   *zap.Logger
}

// WebhookServiceConfig holds dependencies for the webhook service
type WebhookServiceConfig struct {
	Gateway  settlement.PaymentGateway
	Orders   ordering.OrderRepository
	Payments settlement.PaymentRepository
	Store    settlement.SettlementStore
	Sellers  seller.SellerRepository
	Logger   *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookService{
		gateway:  cfg.Gateway,
		orders:   cfg.Orders,
		payments: cfg.Payments,
		store:    cfg.Store,
		sellers:  cfg.Sellers,
		logger:   logger,
	}
}

// Result represents the outcome of processing one callback
type Result struct {
	Success          bool   `json:"success"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	Ignored          bool   `json:"ignored,omitempty"`
	Reference        string `json:"reference,omitempty"`
}

// ProcessCallback handles one raw gateway notification. The signature is
// checked over the exact raw body before anything parses it; the notification
// itself is only a hint, the verify endpoint is the source of truth for the
// charge state and amount.
func (s *WebhookService) ProcessCallback(ctx context.Context, rawBody []byte, signature string) (*Result, error) {
	if err := s.gateway.VerifySignature(rawBody, signature); err != nil {
		s.logger.Warn("Webhook signature rejected", zap.Error(err))
		return nil, err
	}

	var envelope settlement.CallbackEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		s.logger.Warn("Signed webhook body is not valid JSON", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if envelope.Event != settlement.ChargeSuccessEvent {
		s.logger.Info("Ignoring webhook event",
			zap.String("event", envelope.Event))
		return &Result{Success: true, Ignored: true}, nil
	}

	reference := envelope.Data.Reference
	if reference == "" {
		return nil, fmt.Errorf("%w: missing transaction reference", ErrInvalidPayload)
	}

	s.logger.Info("Charge notification received",
		zap.String("reference", reference),
		zap.String("channel", envelope.Data.Channel))

	txn, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.logger.Warn("Gateway verification failed",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, err
	}

	// The gateway is the source of truth: a notification claiming success
	// for a charge the gateway does not report as successful is a failed
	// verification, not a benign event.
	if !txn.IsSuccess() {
		s.logger.Warn("Verified transaction is not successful, rejecting",
			zap.String("reference", reference),
			zap.String("status", txn.Status))
		return nil, fmt.Errorf("%w: transaction status is %q", settlement.ErrVerificationFailed, txn.Status)
	}

	metadata := txn.Metadata
	if len(metadata) == 0 {
		metadata = envelope.Data.Metadata
	}

	meta, err := settlement.ParseCallbackMetadata(metadata)
	if err != nil {
		s.logger.Warn("Callback metadata rejected",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, err
	}

	switch meta.Kind {
	case settlement.MetadataKindSubscriptionRenewal:
		return s.settleSubscriptionRenewal(ctx, txn, meta.Subscription)
	default:
		return s.settleOrder(ctx, txn, meta.Order)
	}
}

// settleOrder applies a verified charge to its order. The pre-check on the
// reference short-circuits redeliveries; the unique constraint inside the
// settlement transaction remains the correctness mechanism for concurrent
// duplicates.
func (s *WebhookService) settleOrder(ctx context.Context, txn *settlement.VerifiedTransaction, meta *settlement.OrderSettlementMetadata) (*Result, error) {
	exists, err := s.payments.ExistsByReference(ctx, txn.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to check reference: %w", err)
	}
	if exists {
		s.logger.Info("Reference already settled, acknowledging",
			zap.String("reference", txn.Reference))
		return &Result{Success: true, AlreadyProcessed: true, Reference: txn.Reference}, nil
	}

	// One reload on a version conflict covers the common race with another
	// settlement of the same order; a second conflict surfaces as an error
	// and the gateway redelivers.
	for attempt := 0; attempt < 2; attempt++ {
		order, err := s.orders.FindByID(ctx, meta.OrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
		if order == nil {
			s.logger.Error("Callback references unknown order",
				zap.String("reference", txn.Reference),
				zap.String("order_id", meta.OrderID.String()))
			return nil, settlement.ErrOrderNotFound
		}

		if err := order.ApplyPayment(txn.Reference, txn.Amount, meta.Partial); err != nil {
			s.logger.Warn("Payment rejected by order",
				zap.String("reference", txn.Reference),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
			return nil, err
		}

		payment, err := settlement.NewCompletedPayment(
			&order.ID, txn.Reference, txn.Channel, txn.GatewayResponse, txn.Amount, meta.Partial)
		if err != nil {
			return nil, err
		}

		err = s.store.Settle(ctx, order, payment)
		if errors.Is(err, settlement.ErrDuplicateReference) {
			s.logger.Info("Reference settled concurrently, acknowledging",
				zap.String("reference", txn.Reference))
			return &Result{Success: true, AlreadyProcessed: true, Reference: txn.Reference}, nil
		}
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("Order version conflict, retrying settlement",
				zap.String("order_id", order.ID.String()),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("settlement failed: %w", err)
		}

		s.logger.Info("Order settled",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("reference", txn.Reference),
			zap.String("amount", txn.Amount.String()),
			zap.Bool("partial", meta.Partial),
			zap.Bool("fully_paid", order.IsFullyPaid()))

		return &Result{Success: true, Reference: txn.Reference}, nil
	}

	return nil, shared.ErrConcurrencyConflict
}

// settleSubscriptionRenewal extends a seller's plan and records the charge as
// a standalone payment with no order attached.
func (s *WebhookService) settleSubscriptionRenewal(ctx context.Context, txn *settlement.VerifiedTransaction, meta *settlement.SubscriptionRenewalMetadata) (*Result, error) {
	exists, err := s.payments.ExistsByReference(ctx, txn.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to check reference: %w", err)
	}
	if exists {
		s.logger.Info("Renewal reference already settled, acknowledging",
			zap.String("reference", txn.Reference))
		return &Result{Success: true, AlreadyProcessed: true, Reference: txn.Reference}, nil
	}

	sel, err := s.sellers.FindByID(ctx, meta.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if sel == nil {
		s.logger.Error("Renewal callback references unknown seller",
			zap.String("reference", txn.Reference),
			zap.String("seller_id", meta.SellerID.String()))
		return nil, ErrSellerNotFound
	}

	if err := sel.RenewPlan(meta.PlanCode, meta.Months); err != nil {
		return nil, err
	}
	if err := s.sellers.Save(ctx, sel); err != nil {
		return nil, fmt.Errorf("failed to save seller: %w", err)
	}

	payment, err := settlement.NewCompletedPayment(
		nil, txn.Reference, txn.Channel, txn.GatewayResponse, txn.Amount, false)
	if err != nil {
		return nil, err
	}

	err = s.payments.Save(ctx, payment)
	if errors.Is(err, settlement.ErrDuplicateReference) {
		s.logger.Info("Renewal reference settled concurrently, acknowledging",
			zap.String("reference", txn.Reference))
		return &Result{Success: true, AlreadyProcessed: true, Reference: txn.Reference}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record renewal payment: %w", err)
	}

	s.logger.Info("Seller plan renewed",
		zap.String("seller_id", sel.ID.String()),
		zap.String("plan_code", meta.PlanCode),
		zap.Int("months", meta.Months),
		zap.String("reference", txn.Reference))

	return &Result{Success: true, Reference: txn.Reference}, nil
}
