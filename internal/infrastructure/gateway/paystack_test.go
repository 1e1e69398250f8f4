package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/infrastructure/config"
)

func newTestGateway(t *testing.T, baseURL string) *PaystackGateway {
	t.Helper()
	gw, err := NewPaystackGateway(config.GatewayConfig{
		BaseURL:       baseURL,
		WebhookSecret: "whsec_test",
		APIKey:        "sk_test_key",
		VerifyTimeout: 2 * time.Second,
		VerifyRetries: 1,
	})
	require.NoError(t, err)
	return gw
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackGateway_VerifySignature(t *testing.T) {
	gw := newTestGateway(t, "http://unused")
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	t.Run("accepts valid signature", func(t *testing.T) {
		err := gw.VerifySignature(body, signBody("whsec_test", body))
		assert.NoError(t, err)
	})

	t.Run("rejects missing signature", func(t *testing.T) {
		err := gw.VerifySignature(body, "")
		assert.ErrorIs(t, err, settlement.ErrInvalidSignature)
	})

	t.Run("rejects signature computed with wrong secret", func(t *testing.T) {
		err := gw.VerifySignature(body, signBody("other-secret", body))
		assert.ErrorIs(t, err, settlement.ErrInvalidSignature)
	})

	t.Run("rejects signature over different body", func(t *testing.T) {
		tampered := []byte(`{"event":"charge.success","data":{"reference":"ref-2"}}`)
		err := gw.VerifySignature(tampered, signBody("whsec_test", body))
		assert.ErrorIs(t, err, settlement.ErrInvalidSignature)
	})
}

func TestPaystackGateway_VerifyTransaction(t *testing.T) {
	t.Run("returns verified transaction on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"status": true,
				"message": "Verification successful",
				"data": {
					"id": 42,
					"reference": "ref-123",
					"amount": 10000,
					"channel": "card",
					"status": "success",
					"gateway_response": "Successful",
					"metadata": {"order_id": "9d2f8b6e-0000-0000-0000-000000000001"}
				}
			}`))
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		txn, err := gw.VerifyTransaction(context.Background(), "ref-123")
		require.NoError(t, err)

		assert.Equal(t, int64(42), txn.ID)
		assert.Equal(t, "ref-123", txn.Reference)
		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, "card", txn.Channel)
		assert.True(t, txn.IsSuccess())
		assert.NotEmpty(t, txn.Metadata)
	})

	t.Run("retries once on server error", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"status": true, "data": {"id": 1, "reference": "ref-9", "amount": 500, "status": "success"}}`))
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		txn, err := gw.VerifyTransaction(context.Background(), "ref-9")
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, "ref-9", txn.Reference)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		_, err := gw.VerifyTransaction(context.Background(), "ref-missing")
		assert.ErrorIs(t, err, settlement.ErrVerificationFailed)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives up after one retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		_, err := gw.VerifyTransaction(context.Background(), "ref-down")
		assert.ErrorIs(t, err, settlement.ErrVerificationFailed)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("rejects status false envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		_, err := gw.VerifyTransaction(context.Background(), "ref-bogus")
		assert.ErrorIs(t, err, settlement.ErrVerificationFailed)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not-json`))
		}))
		defer server.Close()

		gw := newTestGateway(t, server.URL)
		_, err := gw.VerifyTransaction(context.Background(), "ref-1")
		assert.ErrorIs(t, err, settlement.ErrVerificationFailed)
	})

	t.Run("rejects empty reference without a request", func(t *testing.T) {
		gw := newTestGateway(t, "http://localhost:0")
		_, err := gw.VerifyTransaction(context.Background(), "")
		assert.ErrorIs(t, err, settlement.ErrVerificationFailed)
	})
}
