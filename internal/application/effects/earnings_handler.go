package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/markethub/backend/internal/domain/loyalty"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/seller"
	"github.com/markethub/backend/internal/domain/shared"
)

// EarningsHandler accrues the seller's proceeds and sale points once an order
// is fully paid. Direct-fulfillment orders are paid out through a separate
// channel and accrue nothing here; partial payments accrue nothing until the
// final installment lands.
type EarningsHandler struct {
	earningsRepo    earnings.SellerEarningsRepository
	sellers         seller.SellerRepository
	ledger          loyalty.PointsLedger
	pointsPerTenths int64
	verifiedBonus   int64
	logger          *zap.Logger
}

// EarningsHandlerConfig holds dependencies for the earnings handler
type EarningsHandlerConfig struct {
	EarningsRepo earnings.SellerEarningsRepository
	Sellers      seller.SellerRepository
	Ledger       loyalty.PointsLedger
	// SellerPointsPerTenUnits is the base accrual rate for seller sale points
	SellerPointsPerTenUnits int64
	// VerifiedSellerMultiplier scales the accrual for verified sellers
	VerifiedSellerMultiplier int64
	Logger                   *zap.Logger
}

// NewEarningsHandler creates a new seller earnings handler
func NewEarningsHandler(cfg EarningsHandlerConfig) *EarningsHandler {
	multiplier := cfg.VerifiedSellerMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return &EarningsHandler{
		earningsRepo:    cfg.EarningsRepo,
		sellers:         cfg.Sellers,
		ledger:          cfg.Ledger,
		pointsPerTenths: cfg.SellerPointsPerTenUnits,
		verifiedBonus:   multiplier,
		logger:          cfg.Logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EarningsHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderSettled}
}

// Handle accrues seller earnings and points for a fully settled order
func (h *EarningsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settled, ok := event.(*ordering.OrderSettledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderSettled, event.EventType())
	}

	if !settled.FullyPaid {
		h.logger.Debug("order not fully paid, deferring earnings accrual",
			zap.String("order_number", settled.OrderNumber),
			zap.String("balance_due", settled.BalanceDue.String()),
		)
		return nil
	}
	if settled.IsDirectFulfillment {
		h.logger.Debug("direct fulfillment order, skipping earnings accrual",
			zap.String("order_number", settled.OrderNumber),
		)
		return nil
	}

	proceeds := settled.Subtotal.Sub(settled.PlatformFee)
	if proceeds.IsNegative() {
		// A fee exceeding the subtotal is a pricing bug upstream; accruing a
		// negative amount would silently debit the seller.
		return fmt.Errorf("platform fee %s exceeds subtotal %s for order %s",
			settled.PlatformFee.String(), settled.Subtotal.String(), settled.OrderNumber)
	}

	if err := h.earningsRepo.Accrue(ctx, settled.SellerID, proceeds); err != nil {
		h.logger.Error("failed to accrue seller earnings",
			zap.String("order_number", settled.OrderNumber),
			zap.String("seller_id", settled.SellerID.String()),
			zap.String("proceeds", proceeds.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to accrue seller earnings: %w", err)
	}

	h.logger.Info("seller earnings accrued",
		zap.String("order_number", settled.OrderNumber),
		zap.String("seller_id", settled.SellerID.String()),
		zap.String("proceeds", proceeds.String()),
	)

	return h.awardSellerPoints(ctx, settled)
}

// awardSellerPoints credits sale points on the subtotal, doubled (or whatever
// the configured multiplier is) for verified sellers.
func (h *EarningsHandler) awardSellerPoints(ctx context.Context, settled *ordering.OrderSettledEvent) error {
	rate := h.pointsPerTenths

	verified, err := h.sellers.IsVerified(ctx, settled.SellerID)
	if err != nil {
		h.logger.Warn("failed to check seller verification, using base rate",
			zap.String("seller_id", settled.SellerID.String()),
			zap.Error(err),
		)
	} else if verified {
		rate *= h.verifiedBonus
	}

	points := loyalty.PointsForAmount(settled.Subtotal, rate)
	if points <= 0 {
		return nil
	}

	metadata := map[string]string{
		"order_id":  settled.OrderID.String(),
		"reference": settled.Reference,
	}

	if err := h.ledger.Award(ctx, settled.SellerID, points, loyalty.ReasonSellerSale, metadata); err != nil {
		h.logger.Error("failed to award seller points",
			zap.String("order_number", settled.OrderNumber),
			zap.String("seller_id", settled.SellerID.String()),
			zap.Int64("points", points),
			zap.Error(err),
		)
		return fmt.Errorf("failed to award seller points: %w", err)
	}

	h.logger.Info("seller points awarded",
		zap.String("order_number", settled.OrderNumber),
		zap.String("seller_id", settled.SellerID.String()),
		zap.Int64("points", points),
		zap.Bool("verified", verified),
	)

	return nil
}

// Ensure EarningsHandler implements shared.EventHandler
var _ shared.EventHandler = (*EarningsHandler)(nil)
