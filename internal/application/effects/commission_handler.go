package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/earnings"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/shared"
)

// CommissionHandler records referral commission for settled orders that
// carried a partner's referral code at checkout. An unknown code is logged
// and skipped: attribution cookies outlive partner accounts.
type CommissionHandler struct {
	partners earnings.PartnerRepository
	resolver earnings.CommissionRateResolver
	logger   *zap.Logger
}

// NewCommissionHandler creates a new referral commission handler
func NewCommissionHandler(
	partners earnings.PartnerRepository,
	resolver earnings.CommissionRateResolver,
	logger *zap.Logger,
) *CommissionHandler {
	return &CommissionHandler{
		partners: partners,
		resolver: resolver,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CommissionHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderSettled}
}

// Handle records the attributed sale for a fully paid referred order
func (h *CommissionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settled, ok := event.(*ordering.OrderSettledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderSettled, event.EventType())
	}

	if settled.ReferralCode == "" {
		return nil
	}
	// Attribution follows purchased line items; an itemless order (a
	// renewal or manual adjustment) carries nothing to attribute.
	if len(settled.Items) == 0 {
		h.logger.Debug("order has no line items, skipping commission",
			zap.String("order_number", settled.OrderNumber),
		)
		return nil
	}
	if !settled.FullyPaid {
		h.logger.Debug("order not fully paid, deferring commission",
			zap.String("order_number", settled.OrderNumber),
		)
		return nil
	}

	partner, err := h.partners.FindByShortCode(ctx, settled.ReferralCode)
	if err != nil {
		return fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if partner == nil {
		h.logger.Warn("referral code does not match a partner, skipping commission",
			zap.String("order_number", settled.OrderNumber),
			zap.String("referral_code", settled.ReferralCode),
		)
		return nil
	}

	rate, err := h.resolver.ResolveRate(ctx, partner.ID, settled.OrderID)
	if err != nil {
		return fmt.Errorf("failed to resolve commission rate: %w", err)
	}

	sale := earnings.NewAttributedSale(partner.ID, settled.OrderID, settled.Subtotal, rate)

	if err := h.partners.RecordAttributedSale(ctx, sale); err != nil {
		h.logger.Error("failed to record attributed sale",
			zap.String("order_number", settled.OrderNumber),
			zap.String("partner_id", partner.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to record attributed sale: %w", err)
	}

	h.logger.Info("referral commission recorded",
		zap.String("order_number", settled.OrderNumber),
		zap.String("partner_id", partner.ID.String()),
		zap.String("referral_code", settled.ReferralCode),
		zap.String("commission", sale.CommissionAmount.String()),
	)

	return nil
}

// Ensure CommissionHandler implements shared.EventHandler
var _ shared.EventHandler = (*CommissionHandler)(nil)
