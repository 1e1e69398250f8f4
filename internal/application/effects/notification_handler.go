package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/infrastructure/notification"
)

// NotificationHandler emails the buyer a receipt and the seller a sale alert
// once an order settles. Mail failures are logged and returned so the
// redelivery path can retry them; they never touch the settled order.
type NotificationHandler struct {
	sender notification.EmailSender
	logger *zap.Logger
}

// NewNotificationHandler creates a new settlement notification handler
func NewNotificationHandler(sender notification.EmailSender, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		sender: sender,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderSettled}
}

// Handle sends the buyer receipt and seller alert for a settled order
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settled, ok := event.(*ordering.OrderSettledEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventTypeOrderSettled, event.EventType())
	}

	if settled.BuyerEmail != "" {
		subject := fmt.Sprintf("Payment received for order %s", settled.OrderNumber)
		body := h.buyerReceiptBody(settled)
		if err := h.sender.SendEmail(ctx, settled.BuyerEmail, subject, body); err != nil {
			h.logger.Error("failed to send buyer receipt",
				zap.String("order_number", settled.OrderNumber),
				zap.String("buyer_email", settled.BuyerEmail),
				zap.Error(err),
			)
			return fmt.Errorf("failed to send buyer receipt: %w", err)
		}
	}

	if settled.SellerEmail != "" {
		subject := fmt.Sprintf("New sale: order %s", settled.OrderNumber)
		body := h.sellerAlertBody(settled)
		if err := h.sender.SendEmail(ctx, settled.SellerEmail, subject, body); err != nil {
			h.logger.Error("failed to send seller alert",
				zap.String("order_number", settled.OrderNumber),
				zap.String("seller_email", settled.SellerEmail),
				zap.Error(err),
			)
			return fmt.Errorf("failed to send seller alert: %w", err)
		}
	}

	h.logger.Info("settlement notifications sent",
		zap.String("order_number", settled.OrderNumber),
		zap.String("reference", settled.Reference),
	)

	return nil
}

func (h *NotificationHandler) buyerReceiptBody(e *ordering.OrderSettledEvent) string {
	status := "paid in full"
	if !e.FullyPaid {
		status = fmt.Sprintf("partially paid, %s outstanding", e.BalanceDue.StringFixed(2))
	}
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your payment of %s for order <b>%s</b>. The order is now %s.</p>",
		e.BuyerName, e.PaymentAmount.StringFixed(2), e.OrderNumber, status,
	)
}

func (h *NotificationHandler) sellerAlertBody(e *ordering.OrderSettledEvent) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Order <b>%s</b> received a payment of %s from %s.</p>",
		e.SellerName, e.OrderNumber, e.PaymentAmount.StringFixed(2), e.BuyerName,
	)
}

// Ensure NotificationHandler implements shared.EventHandler
var _ shared.EventHandler = (*NotificationHandler)(nil)
