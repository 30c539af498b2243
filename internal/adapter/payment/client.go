package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/orderengine/internal/domain/model"
)

var (
	// ErrPaymentNotFound indicates provider doesn't know the reference.
	ErrPaymentNotFound = errors.New("payment not found at provider")
	// ErrDisabled is returned when no provider address is configured.
	ErrDisabled = errors.New("payment provider disabled")
)

// TooManyRequestsError represents rate limiting signal from the provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client talks to the external payment provider.
type Client interface {
	Enabled() bool
	Initiate(ctx context.Context, order model.Order) (string, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type initiateRequest struct {
	OrderNumber string `json:"order_number"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
}

type initiateResponse struct {
	Reference string `json:"reference"`
}

type verifyResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// NewHTTPClient creates HTTP payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment provider url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Enabled reports true for a configured provider.
func (c *HTTPClient) Enabled() bool {
	return true
}

// Initiate registers a payment intent for order and returns the provider reference.
func (c *HTTPClient) Initiate(ctx context.Context, order model.Order) (string, error) {
	body, err := json.Marshal(initiateRequest{
		OrderNumber: order.Number,
		Amount:      order.Total.StringFixed(2),
		Method:      string(order.PaymentMethod),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/payments"), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var data initiateResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return "", err
		}
		if data.Reference == "" {
			return "", fmt.Errorf("payment provider returned empty reference")
		}
		return data.Reference, nil
	case http.StatusTooManyRequests:
		return "", TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return "", c.unexpected(resp)
	}
}

// Verify fetches current payment status for reference. The raw response is kept as payload.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/payments/", reference), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data verifyResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.PaymentVerification{Reference: reference, Status: model.PaymentStatus(data.Status), Payload: body}, nil
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return nil, c.unexpected(resp)
	}
}

func (c *HTTPClient) endpoint(parts ...string) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(append([]string{endpoint.Path}, parts...)...)
	return endpoint.String()
}

func (c *HTTPClient) unexpected(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("payment provider request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
	return fmt.Errorf("payment provider error: %s", resp.Status)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// DisabledClient is used when no provider is configured.
type DisabledClient struct{}

func (DisabledClient) Enabled() bool { return false }

func (DisabledClient) Initiate(context.Context, model.Order) (string, error) {
	return "", ErrDisabled
}

func (DisabledClient) Verify(context.Context, string) (*model.PaymentVerification, error) {
	return nil, ErrDisabled
}
