package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsettlement "github.com/markethub/backend/internal/application/settlement"
	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/markethub/backend/internal/interfaces/http/dto"
)

// SignatureHeader carries the gateway's HMAC-SHA512 hex signature of the
// raw request body.
const SignatureHeader = "X-Signature"

// WebhookHandler receives payment gateway notifications. The response code
// is the redelivery contract: 200 acknowledges (including duplicates and
// ignored events), anything else makes the gateway redeliver.
type WebhookHandler struct {
	BaseHandler
	webhooks *appsettlement.WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhooks *appsettlement.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

// HandlePaymentCallback processes one gateway notification.
// The body must be read raw: the signature covers the exact bytes on the
// wire, so nothing may parse or re-serialize it first.
func (h *WebhookHandler) HandlePaymentCallback(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader(SignatureHeader)

	result, err := h.webhooks.ProcessCallback(c.Request.Context(), rawBody, signature)
	if err != nil {
		h.handleCallbackError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleCallbackError maps processing failures onto the status codes the
// gateway's redelivery policy expects.
func (h *WebhookHandler) handleCallbackError(c *gin.Context, err error) {
	requestID := getRequestID(c)

	switch {
	case errors.Is(err, settlement.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUnauthorized, "Invalid webhook signature", requestID))

	case errors.Is(err, appsettlement.ErrInvalidPayload),
		errors.Is(err, settlement.ErrInvalidMetadata):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Invalid callback payload", requestID))

	case errors.Is(err, settlement.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeVerificationFailed, "Transaction could not be verified", requestID))

	case errors.Is(err, settlement.ErrOrderNotFound):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Order not found for settlement", requestID))

	case errors.Is(err, appsettlement.ErrSellerNotFound):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Seller not found for renewal", requestID))

	case errors.Is(err, shared.ErrConcurrencyConflict):
		// 409 makes the gateway redeliver; the retry will hit the duplicate
		// pre-check or settle cleanly.
		c.JSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeConcurrencyConflict, "Settlement conflicted, retry expected", requestID))

	default:
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			// Business rejections (amount mismatch, bad order state) are the
			// gateway's payload being wrong, not ours.
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				domainErr.Code, domainErr.Message, requestID))
			return
		}

		h.logger.Error("Webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal, "Failed to process callback", requestID))
	}
}
