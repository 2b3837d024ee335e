// Package stripe is a minimal read-only client for the Stripe REST API.
package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Stripe API root.
	DefaultBaseURL = "https://api.stripe.com"

	maxResponseBytes = 4 << 20
	userAgent        = "stripe-mcp-server"
)

// RequestRecorder observes provider requests.
type RequestRecorder interface {
	RecordProviderRequest(ctx context.Context, endpoint, status string, elapsed time.Duration)
}

// Options tune the client. Zero values select defaults.
type Options struct {
	// BaseURL overrides the API root.
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	// RateLimit is the allowed request rate per second; 0 disables throttling.
	RateLimit float64
	// RateBurst is the limiter burst size.
	RateBurst int
	// Recorder receives per-request metrics.
	Recorder RequestRecorder
}

// Client is bound to one secret key and safe for concurrent use.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	limiter    *rate.Limiter
	recorder   RequestRecorder
}

// NewClient creates a client for the given secret key.
func NewClient(secretKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid stripe base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 80 * time.Second}
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(math.Ceil(opts.RateLimit))
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: httpClient,
		limiter:    limiter,
		recorder:   opts.Recorder,
	}, nil
}

// Probe performs a lightweight read to confirm the credential is usable.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.GetBalance(ctx)
	return err
}

// GetBalance retrieves the account balance.
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	var balance Balance
	if err := c.get(ctx, "/v1/balance", "balance", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// ListBalanceTransactions lists balance transactions.
func (c *Client) ListBalanceTransactions(ctx context.Context, params ListParams) (*Page, error) {
	return c.list(ctx, "/v1/balance_transactions", "balance_transactions", pageQuery(params))
}

// ListCustomers lists customers, optionally filtered by email.
func (c *Client) ListCustomers(ctx context.Context, params ListParams, email string) (*Page, error) {
	query := pageQuery(params)
	if email != "" {
		query.Set("email", email)
	}
	return c.list(ctx, "/v1/customers", "customers", query)
}

// ListPaymentMethods lists the card payment methods of a customer.
func (c *Client) ListPaymentMethods(ctx context.Context, customer string) (*Page, error) {
	query := url.Values{}
	query.Set("customer", customer)
	query.Set("type", "card")
	return c.list(ctx, "/v1/payment_methods", "payment_methods", query)
}

// ListInvoices lists invoices of a customer.
func (c *Client) ListInvoices(ctx context.Context, customer string, params ListParams) (*Page, error) {
	query := pageQuery(params)
	query.Set("customer", customer)
	return c.list(ctx, "/v1/invoices", "invoices", query)
}

// ListSubscriptions returns a single page of subscriptions matching filter.
func (c *Client) ListSubscriptions(ctx context.Context, filter SubscriptionFilter) (*Page, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.CreatedAfter != nil {
		query.Set("created[gte]", strconv.FormatInt(filter.CreatedAfter.Unix(), 10))
	}
	if filter.CreatedUntil != nil {
		query.Set("created[lte]", strconv.FormatInt(filter.CreatedUntil.Unix(), 10))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.FormatInt(filter.Limit, 10))
	}
	return c.list(ctx, "/v1/subscriptions", "subscriptions", query)
}

func pageQuery(params ListParams) url.Values {
	query := url.Values{}
	if params.Limit != nil {
		query.Set("limit", strconv.FormatInt(*params.Limit, 10))
	}
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}
	if params.EndingBefore != "" {
		query.Set("ending_before", params.EndingBefore)
	}
	return query
}

func (c *Client) list(ctx context.Context, path, endpoint string, query url.Values) (*Page, error) {
	var envelope struct {
		Object  string          `json:"object"`
		Data    json.RawMessage `json:"data"`
		HasMore bool            `json:"has_more"`
		URL     string          `json:"url"`
	}
	if err := c.get(ctx, path, endpoint, query, &envelope); err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &MalformedResponseError{Reason: endpoint + " listing is missing its data array"}
	}
	page := &Page{Object: envelope.Object, HasMore: envelope.HasMore, URL: envelope.URL}
	if err := json.Unmarshal(data, &page.Data); err != nil {
		return nil, &MalformedResponseError{Reason: endpoint + " data array: " + err.Error()}
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path, endpoint string, query url.Values, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		if c.recorder != nil {
			c.recorder.RecordProviderRequest(ctx, endpoint, status, time.Since(start))
		}
	}()

	if err := c.throttle(); err != nil {
		status = "throttled"
		return err
	}

	endpointURL := c.baseURL + path
	if len(query) > 0 {
		endpointURL += "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.secretKey)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read stripe response: %w", err)
	}
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr := decodeError(resp, data)
		return &RateLimitError{
			RetryAfter: strings.TrimSpace(resp.Header.Get("Retry-After")),
			Message:    apiErr.Message,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Reason: endpoint + ": " + err.Error()}
	}
	return nil
}

// throttle fails fast instead of queueing when the limiter has no token.
func (c *Client) throttle() error {
	if c.limiter == nil {
		return nil
	}
	reservation := c.limiter.Reserve()
	if !reservation.OK() {
		return &RateLimitError{Local: true, Message: "client-side rate limit exceeded"}
	}
	delay := reservation.Delay()
	if delay <= 0 {
		return nil
	}
	reservation.Cancel()
	seconds := int64(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return &RateLimitError{
		RetryAfter: strconv.FormatInt(seconds, 10),
		Local:      true,
		Message:    "client-side rate limit exceeded",
	}
}

func decodeError(resp *http.Response, data []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("Request-Id"),
	}
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
			Param   string `json:"param"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Param = envelope.Error.Param
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
