package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"villa-reservation/internal/domain/payment"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"

	circuit "github.com/rubyist/circuitbreaker"
)

var (
	ErrGatewayRejected = errs.New("payment gateway rejected the request")
	ErrUnknownIntent   = errs.New("payment intent not found at gateway")
)

// Client is a REST adapter for a Stripe-style payment API: form-encoded requests,
// Basic auth with the secret key and an Idempotency-Key header on every POST.
type Client struct {
	http      *circuit.HTTPClient
	baseURL   string
	secretKey string
	timeout   time.Duration
}

func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	threshold := cfg.BreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return &Client{
		http:      circuit.NewHTTPClient(timeout, threshold, &http.Client{Timeout: timeout}),
		baseURL:   strings.TrimRight(cfg.APIBase, "/"),
		secretKey: cfg.SecretKey,
		timeout:   timeout,
	}
}

var _ commands.PaymentGateway = (*Client)(nil)

type intentResponse struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type refundResponse struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateIntent(ctx context.Context, p commands.CreateIntentParams) (*payment.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	form.Set("currency", p.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if p.Description != "" {
		form.Set("description", p.Description)
	}
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var out intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, p.IdempotencyKey, &out); err != nil {
		return nil, errs.Wrap(err, "create payment intent")
	}
	return out.toDomain(), nil
}

func (c *Client) RetrieveIntent(ctx context.Context, ref string) (*payment.Intent, error) {
	var out intentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(ref), nil, "", &out); err != nil {
		return nil, errs.Wrapf(err, "retrieve payment intent %s", ref)
	}
	return out.toDomain(), nil
}

func (c *Client) CancelIntent(ctx context.Context, ref, idempotencyKey string) (*payment.Intent, error) {
	form := url.Values{}
	form.Set("cancellation_reason", "abandoned")

	var out intentResponse
	path := "/v1/payment_intents/" + url.PathEscape(ref) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, form, idempotencyKey, &out); err != nil {
		return nil, errs.Wrapf(err, "cancel payment intent %s", ref)
	}
	return out.toDomain(), nil
}

func (c *Client) Refund(ctx context.Context, p commands.RefundParams) (*payment.Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", p.IntentRef)
	form.Set("amount", strconv.FormatInt(p.Amount, 10))
	if p.Reason != "" {
		form.Set("reason", p.Reason)
	}

	var out refundResponse
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", form, p.IdempotencyKey, &out); err != nil {
		return nil, errs.Wrap(err, "create refund")
	}
	return &payment.Refund{
		Ref:       out.ID,
		IntentRef: out.PaymentIntent,
		Amount:    out.Amount,
		Status:    out.Status,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errs.Wrap(err, "build gateway request")
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// Transport errors, timeouts and an open breaker all leave the outcome unknown.
		slog.Warn("payment gateway unreachable", "method", method, "path", path, "error", err.Error())
		return errs.Mark(errs.Wrap(err, "gateway transport"), errs.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Mark(errs.Wrap(err, "read gateway response"), errs.ErrGatewayUnavailable)
	}

	slog.Debug("payment gateway call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(raw, out); err != nil {
			return errs.Wrap(err, "decode gateway response")
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return errs.Mark(gatewayError(resp.StatusCode, raw), errs.ErrGatewayUnavailable)
	case resp.StatusCode == http.StatusNotFound:
		return errs.Mark(errs.Mark(gatewayError(resp.StatusCode, raw), ErrUnknownIntent), errs.ErrInvalidArgument)
	default:
		return errs.Mark(gatewayError(resp.StatusCode, raw), ErrGatewayRejected)
	}
}

func gatewayError(status int, raw []byte) error {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
		return errs.Newf("gateway returned %d (%s): %s", status, er.Error.Code, er.Error.Message)
	}
	return errs.Newf("gateway returned %d", status)
}

func (r intentResponse) toDomain() *payment.Intent {
	return &payment.Intent{
		Ref:          r.ID,
		ClientSecret: r.ClientSecret,
		Status:       payment.IntentStatus(r.Status),
		Amount:       r.Amount,
		Currency:     r.Currency,
		Metadata:     r.Metadata,
	}
}
