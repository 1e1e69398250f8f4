package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/loyalty"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/shared"
)

// LoyaltyHandler credits the buyer's loyalty points once an order is fully
// paid. Points accrue on the order total; a partial payment that leaves a
// balance due earns nothing.
type LoyaltyHandler struct {
	ledger          loyalty.PointsLedger
	pointsPerTenths int64
	logger          *zap.Logger
}

// NewLoyaltyHandler creates a new buyer points handler
func NewLoyaltyHandler(ledger loyalty.PointsLedger, buyerPointsPerTenUnits int64, logger *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		ledger:          ledger,
		pointsPerTenths: buyerPointsPerTenUnits,
		logger:          logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LoyaltyHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderSettled}
}

// Handle awards buyer points on the order total once the order is fully paid
func (h *LoyaltyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settled, ok := event.(*ordering.OrderSettledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderSettled, event.EventType())
	}

	if !settled.FullyPaid {
		h.logger.Debug("order not fully paid, no buyer points",
			zap.String("order_number", settled.OrderNumber),
			zap.String("balance_due", settled.BalanceDue.String()),
		)
		return nil
	}

	points := loyalty.PointsForAmount(settled.TotalAmount, h.pointsPerTenths)
	if points <= 0 {
		h.logger.Debug("no buyer points for order total",
			zap.String("order_number", settled.OrderNumber),
			zap.String("amount", settled.TotalAmount.String()),
		)
		return nil
	}

	metadata := map[string]string{
		"order_id":  settled.OrderID.String(),
		"reference": settled.Reference,
	}

	if err := h.ledger.Award(ctx, settled.BuyerID, points, loyalty.ReasonBuyerPurchase, metadata); err != nil {
		h.logger.Error("failed to award buyer points",
			zap.String("order_number", settled.OrderNumber),
			zap.String("buyer_id", settled.BuyerID.String()),
			zap.Int64("points", points),
			zap.Error(err),
		)
		return fmt.Errorf("failed to award buyer points: %w", err)
	}

	h.logger.Info("buyer points awarded",
		zap.String("order_number", settled.OrderNumber),
		zap.String("buyer_id", settled.BuyerID.String()),
		zap.Int64("points", points),
	)

	return nil
}

// Ensure LoyaltyHandler implements shared.EventHandler
var _ shared.EventHandler = (*LoyaltyHandler)(nil)
