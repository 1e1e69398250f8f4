package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsettlement "github.com/markethub/backend/internal/application/settlement"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/seller"
	"github.com/markethub/backend/internal/domain/settlement"
)

type stubGateway struct {
	signatureErr error
	txn          *settlement.VerifiedTransaction
	verifyErr    error
}

func (g *stubGateway) VerifySignature(rawBody []byte, signature string) error {
	return g.signatureErr
}

func (g *stubGateway) VerifyTransaction(ctx context.Context, reference string) (*settlement.VerifiedTransaction, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.txn, nil
}

type stubOrderRepo struct {
	order *ordering.Order
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	if r.order != nil && r.order.ID == id {
		return r.order, nil
	}
	return nil, nil
}

func (r *stubOrderRepo) Save(ctx context.Context, order *ordering.Order) error {
	return nil
}

type stubPaymentRepo struct {
	exists   bool
	payments []*settlement.Payment
}

func (r *stubPaymentRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	return r.exists, nil
}

func (r *stubPaymentRepo) FindByReference(ctx context.Context, reference string) (*settlement.Payment, error) {
	return nil, nil
}

func (r *stubPaymentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*settlement.Payment, error) {
	return r.payments, nil
}

func (r *stubPaymentRepo) Save(ctx context.Context, payment *settlement.Payment) error {
	return nil
}

type stubSettlementStore struct {
	settleCalls int
	settleErr   error
}

func (s *stubSettlementStore) Settle(ctx context.Context, order *ordering.Order, payment *settlement.Payment) error {
	s.settleCalls++
	return s.settleErr
}

type stubSellerRepo struct{}

func (r *stubSellerRepo) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	return nil, nil
}

func (r *stubSellerRepo) Save(ctx context.Context, s *seller.Seller) error { return nil }

func (r *stubSellerRepo) IsVerified(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

type webhookFixture struct {
	gateway *stubGateway
	orders  *stubOrderRepo
	store   *stubSettlementStore
	router  *gin.Engine
}

func newWebhookFixture(t *testing.T, gateway *stubGateway, orders *stubOrderRepo, payments *stubPaymentRepo, store *stubSettlementStore) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := appsettlement.NewWebhookService(appsettlement.WebhookServiceConfig{
		Gateway:  gateway,
		Orders:   orders,
		Payments: payments,
		Store:    store,
		Sellers:  &stubSellerRepo{},
		Logger:   zap.NewNop(),
	})

	h := NewWebhookHandler(service, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/webhooks/payment", h.HandlePaymentCallback)

	return &webhookFixture{gateway: gateway, orders: orders, store: store, router: router}
}

func (f *webhookFixture) post(body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func testOrder(t *testing.T, total int64) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(
		"ORD-2025-0001",
		uuid.New(), uuid.New(),
		decimal.NewFromInt(total), decimal.NewFromInt(total), decimal.NewFromInt(0),
		ordering.OrderItems{},
		false,
	)
	require.NoError(t, err)
	return order
}

func successTxn(order *ordering.Order, reference string, amount int64) *settlement.VerifiedTransaction {
	metadata := fmt.Sprintf(`{"order_id":%q}`, order.ID.String())
	return &settlement.VerifiedTransaction{
		Reference:       reference,
		Status:          "success",
		Amount:          decimal.NewFromInt(amount),
		Channel:         "card",
		GatewayResponse: "Approved",
		Metadata:        json.RawMessage(metadata),
	}
}

func chargeSuccessBody(reference string) string {
	return fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q,"channel":"card"}}`, reference)
}

func TestWebhookHandler_SettlesOrder(t *testing.T) {
	order := testOrder(t, 5000)
	f := newWebhookFixture(t,
		&stubGateway{txn: successTxn(order, "ref-100", 5000)},
		&stubOrderRepo{order: order},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-100"), "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.store.settleCalls)

	var result appsettlement.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "ref-100", result.Reference)
	assert.False(t, result.AlreadyProcessed)
}

func TestWebhookHandler_RejectsInvalidSignature(t *testing.T) {
	order := testOrder(t, 5000)
	f := newWebhookFixture(t,
		&stubGateway{signatureErr: settlement.ErrInvalidSignature, txn: successTxn(order, "ref-101", 5000)},
		&stubOrderRepo{order: order},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-101"), "forged")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.store.settleCalls)
	assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
}

func TestWebhookHandler_IgnoresOtherEvents(t *testing.T) {
	f := newWebhookFixture(t,
		&stubGateway{},
		&stubOrderRepo{},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(`{"event":"charge.dispute.create","data":{"reference":"ref-102"}}`, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, f.store.settleCalls)

	var result appsettlement.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.True(t, result.Ignored)
}

func TestWebhookHandler_AmountMismatch(t *testing.T) {
	order := testOrder(t, 10000)
	f := newWebhookFixture(t,
		&stubGateway{txn: successTxn(order, "ref-103", 9999)},
		&stubOrderRepo{order: order},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-103"), "valid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.store.settleCalls)
	assert.Contains(t, rec.Body.String(), "ERR_AMOUNT_MISMATCH")
}

func TestWebhookHandler_UnknownOrder(t *testing.T) {
	order := testOrder(t, 5000)
	f := newWebhookFixture(t,
		&stubGateway{txn: successTxn(order, "ref-104", 5000)},
		&stubOrderRepo{},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-104"), "valid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")
}

func TestWebhookHandler_VerificationFailure(t *testing.T) {
	f := newWebhookFixture(t,
		&stubGateway{verifyErr: settlement.ErrVerificationFailed},
		&stubOrderRepo{},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-105"), "valid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.store.settleCalls)
	assert.Contains(t, rec.Body.String(), "ERR_VERIFICATION_FAILED")
}

func TestWebhookHandler_DuplicateAcknowledged(t *testing.T) {
	order := testOrder(t, 5000)
	f := newWebhookFixture(t,
		&stubGateway{txn: successTxn(order, "ref-106", 5000)},
		&stubOrderRepo{order: order},
		&stubPaymentRepo{exists: true},
		&stubSettlementStore{},
	)

	rec := f.post(chargeSuccessBody("ref-106"), "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, f.store.settleCalls)

	var result appsettlement.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.True(t, result.AlreadyProcessed)
}

func TestWebhookHandler_MalformedSignedBody(t *testing.T) {
	f := newWebhookFixture(t,
		&stubGateway{},
		&stubOrderRepo{},
		&stubPaymentRepo{},
		&stubSettlementStore{},
	)

	rec := f.post(`{"event":`, "valid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_BAD_REQUEST")
}
