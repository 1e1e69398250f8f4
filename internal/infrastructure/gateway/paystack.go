package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/markethub/backend/internal/domain/settlement"
	"github.com/markethub/backend/internal/infrastructure/config"
)

// maxVerifyResponseSize limits the response body size to prevent memory exhaustion
const maxVerifyResponseSize = 1 * 1024 * 1024 // 1MB max response

// PaystackGateway implements settlement.PaymentGateway against a
// Paystack-style REST API. Callback notifications are authenticated with an
// HMAC-SHA512 signature over the exact raw body; transaction state is
// re-read from the gateway with the server-held API key, never trusted from
// the notification itself.
type PaystackGateway struct {
	baseURL       string
	webhookSecret []byte
	apiKey        string
	retries       int
	httpClient    *http.Client
}

// NewPaystackGateway creates a new gateway client from configuration
func NewPaystackGateway(cfg config.GatewayConfig) (*PaystackGateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: base URL is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("gateway: webhook secret is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gateway: API key is required")
	}

	return &PaystackGateway{
		baseURL:       cfg.BaseURL,
		webhookSecret: []byte(cfg.WebhookSecret),
		apiKey:        cfg.APIKey,
		retries:       cfg.VerifyRetries,
		httpClient: &http.Client{
			Timeout: cfg.VerifyTimeout,
		},
	}, nil
}

// VerifySignature checks the HMAC-SHA512 hex signature over the raw request
// body. It runs before any parsing of the body, so malformed payloads from
// unauthenticated senders never reach the JSON decoder.
func (g *PaystackGateway) VerifySignature(rawBody []byte, signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: missing signature header", settlement.ErrInvalidSignature)
	}

	mac := hmac.New(sha512.New, g.webhookSecret)
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return fmt.Errorf("%w: signature mismatch", settlement.ErrInvalidSignature)
	}

	return nil
}

// verifyResponse is the gateway's verification envelope
type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID              int64           `json:"id"`
		Reference       string          `json:"reference"`
		Amount          decimal.Decimal `json:"amount"`
		Channel         string          `json:"channel"`
		Status          string          `json:"status"`
		GatewayResponse string          `json:"gateway_response"`
		Metadata        json.RawMessage `json:"metadata"`
	} `json:"data"`
}

// VerifyTransaction fetches the authoritative transaction state for a
// reference. At most one retry on transport errors or 5xx responses; any
// other failure maps to ErrVerificationFailed.
func (g *PaystackGateway) VerifyTransaction(ctx context.Context, reference string) (*settlement.VerifiedTransaction, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", settlement.ErrVerificationFailed)
	}

	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)

	body, err := g.doVerifyRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed verification response: %v", settlement.ErrVerificationFailed, err)
	}

	if !resp.Status {
		return nil, fmt.Errorf("%w: gateway rejected verification: %s", settlement.ErrVerificationFailed, resp.Message)
	}

	return &settlement.VerifiedTransaction{
		ID:              resp.Data.ID,
		Reference:       resp.Data.Reference,
		Amount:          resp.Data.Amount,
		Channel:         resp.Data.Channel,
		Status:          resp.Data.Status,
		GatewayResponse: resp.Data.GatewayResponse,
		Metadata:        resp.Data.Metadata,
	}, nil
}

// doVerifyRequest performs the GET with a bounded retry on transient failures
func (g *PaystackGateway) doVerifyRequest(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= g.retries; attempt++ {
		body, retryable, err := g.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

func (g *PaystackGateway) attempt(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create request: %v", settlement.ErrVerificationFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", settlement.ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("%w: failed to read response: %v", settlement.ErrVerificationFailed, err)
	}

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("%w: HTTP %d", settlement.ErrVerificationFailed, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("%w: HTTP %d", settlement.ErrVerificationFailed, resp.StatusCode)
	}

	return data, false, nil
}

// Ensure PaystackGateway implements PaymentGateway
var _ settlement.PaymentGateway = (*PaystackGateway)(nil)
