package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sunushop-backend/internal/domain"
)

// ErrDisabled is returned when no gateway URL is configured.
var ErrDisabled = domain.ErrPaymentDisabled

// Client creates hosted checkout sessions on the mobile-money/card gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" || apiKey == "" {
		slog.Warn("Payment gateway URL or API key not configured. Online payments disabled.")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("payment-gateway"),
	}
}

type customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type checkoutPayload struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Method    string            `json:"payment_method"`
	Customer  customer          `json:"customer"`
	ReturnURL string            `json:"return_url"`
	CancelURL string            `json:"cancel_url"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type checkoutResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckout registers the order with the gateway and returns the page
// the shopper must be redirected to.
func (c *Client) CreateCheckout(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, ErrDisabled
	}

	ctx, span := c.tracer.Start(ctx, "payment.CreateCheckout",
		trace.WithAttributes(
			attribute.String("order.number", req.OrderNumber),
			attribute.String("payment.method", req.Method),
		))
	defer span.End()

	body, err := json.Marshal(checkoutPayload{
		Reference: req.OrderNumber,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Customer: customer{
			Name:  strings.TrimSpace(req.Customer.FirstName + " " + req.Customer.LastName),
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
		Metadata:  map[string]string{"order_id": req.OrderID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout-sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Idempotency-Key", req.OrderNumber)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("payment gateway error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var out checkoutResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if out.CheckoutURL == "" {
		return nil, errors.New("payment gateway returned no checkout url")
	}

	slog.Info("Payment: checkout session created", "order", req.OrderNumber, "reference", out.ID)
	return &domain.PaymentSession{Reference: out.ID, RedirectURL: out.CheckoutURL}, nil
}

// VerifySignature checks the hex HMAC-SHA256 of a callback body.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	if c.apiKey == "" || signature == "" {
		return false
	}
	expected := Sign(c.apiKey, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// Sign returns the hex-encoded HMAC-SHA256 of payload.
func Sign(key string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
