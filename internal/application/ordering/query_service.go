package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/domain/shared"
)

// OrderQueryService serves read-side order lookups for dashboards
type OrderQueryService struct {
	orders   ordering.OrderRepository
	payments settlement.PaymentRepository
	logger   *zap.Logger
}

// NewOrderQueryService creates a new order query service
func NewOrderQueryService(
	orders ordering.OrderRepository,
	payments settlement.PaymentRepository,
	logger *zap.Logger,
) *OrderQueryService {
	return &OrderQueryService{
		orders:   orders,
		payments: payments,
		logger:   logger,
	}
}

// OrderItemDTO represents one purchased line in an order response
type OrderItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO represents an order in API responses
type OrderDTO struct {
	ID                  uuid.UUID       `json:"id"`
	OrderNumber         string          `json:"order_number"`
	SellerID            uuid.UUID       `json:"seller_id"`
	BuyerID             uuid.UUID       `json:"buyer_id"`
	BuyerName           string          `json:"buyer_name"`
	SellerName          string          `json:"seller_name"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	AmountPaid          decimal.Decimal `json:"amount_paid"`
	BalanceDue          decimal.Decimal `json:"balance_due"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	PlatformFee         decimal.Decimal `json:"platform_fee"`
	Status              string          `json:"status"`
	Items               []OrderItemDTO  `json:"items"`
	IsDirectFulfillment bool            `json:"is_direct_fulfillment"`
	ReferralCode        string          `json:"referral_code,omitempty"`
	FullyPaid           bool            `json:"fully_paid"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// PaymentDTO represents a recorded payment in API responses
type PaymentDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Channel     string          `json:"channel"`
	Status      string          `json:"status"`
	Partial     bool            `json:"partial"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GetOrder retrieves a single order by ID
func (s *OrderQueryService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err), zap.String("order_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load order")
	}
	if order == nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	dto := toOrderDTO(order)
	return &dto, nil
}

// GetOrderPayments retrieves all payments recorded against an order
func (s *OrderQueryService) GetOrderPayments(ctx context.Context, orderID uuid.UUID) ([]PaymentDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load order", zap.Error(err), zap.String("order_id", orderID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load order")
	}
	if order == nil {
		return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	}

	payments, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load payments", zap.Error(err), zap.String("order_id", orderID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load payments")
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos, nil
}

func toOrderDTO(order *ordering.Order) OrderDTO {
	items := make([]OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}

	return OrderDTO{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		SellerID:            order.SellerID,
		BuyerID:             order.BuyerID,
		BuyerName:           order.BuyerName,
		SellerName:          order.SellerName,
		TotalAmount:         order.TotalAmount,
		AmountPaid:          order.AmountPaid,
		BalanceDue:          order.BalanceDue,
		Subtotal:            order.Subtotal,
		PlatformFee:         order.PlatformFee,
		Status:              string(order.Status),
		Items:               items,
		IsDirectFulfillment: order.IsDirectFulfillment,
		ReferralCode:        order.ReferralCode,
		FullyPaid:           order.IsFullyPaid(),
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

func toPaymentDTO(p *settlement.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Channel:     p.Channel,
		Status:      string(p.Status),
		Partial:     p.Partial,
		PaymentDate: p.PaymentDate,
		CreatedAt:   p.CreatedAt,
	}
}
