package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/markethub/backend/internal/application/ordering"
)

// OrderHandler serves read-side order queries
type OrderHandler struct {
	BaseHandler
	queries *appordering.OrderQueryService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(queries *appordering.OrderQueryService) *OrderHandler {
	return &OrderHandler{queries: queries}
}

// GetOrder returns a single order by ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.queries.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetOrderPayments returns all payments recorded against an order
func (h *OrderHandler) GetOrderPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	payments, err := h.queries.GetOrderPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}
