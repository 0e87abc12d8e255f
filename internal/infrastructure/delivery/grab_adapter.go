package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/infrastructure/telemetry"
)

const (
	// maxResponseSize caps how much of a response body is read
	maxResponseSize = 10 * 1024 * 1024
	// readyTimeLayout is the UTC layout the ready-time endpoint expects
	readyTimeLayout = "2006-01-02T15:04:05Z"
)

// Compile-time interface check
var _ integration.DeliveryPlatform = (*GrabAdapter)(nil)

// GrabAdapter implements integration.DeliveryPlatform against the Grab partner API
type GrabAdapter struct {
	config     *GrabConfig
	httpClient *http.Client
	tokens     *TokenSource
	logger     *zap.Logger
}

// GrabOption customizes the adapter
type GrabOption func(*GrabAdapter)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) GrabOption {
	return func(a *GrabAdapter) {
		a.httpClient = c
	}
}

// WithLogger sets the adapter logger
func WithLogger(l *zap.Logger) GrabOption {
	return func(a *GrabAdapter) {
		a.logger = l
	}
}

// NewGrabAdapter creates a new Grab adapter. The store caches the OAuth token.
func NewGrabAdapter(config *GrabConfig, store shared.KeyValueStore, opts ...GrabOption) (*GrabAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	a := &GrabAdapter{
		config:     config,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("platform", "grab"))
	a.tokens = NewTokenSource(config, a.httpClient, store, a.logger)
	return a, nil
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

// NotifyMenuUpdate asks Grab to pull the merchant menu again
func (a *GrabAdapter) NotifyMenuUpdate(ctx context.Context, merchantID string) (*integration.MenuNotificationResult, error) {
	if strings.TrimSpace(merchantID) == "" {
		return nil, integration.ErrMenuMissingMerchant
	}
	resp, err := a.call(ctx, callSpec{
		op:     "menu_notification",
		method: http.MethodPost,
		url:    a.config.endpoint("merchant/menu/notification"),
		body:   grabMenuNotificationRequest{MerchantID: merchantID},
		retry:  true,
	})
	if resp != nil && resp.status == http.StatusConflict {
		return &integration.MenuNotificationResult{StatusCode: resp.status}, integration.ErrMenuPushTooFrequent
	}
	if err != nil {
		return nil, err
	}
	return &integration.MenuNotificationResult{StatusCode: resp.status, Accepted: true}, nil
}

// CreateSelfServeActivation returns the onboarding URL for a partner merchant
func (a *GrabAdapter) CreateSelfServeActivation(ctx context.Context, partnerMerchantID string) (string, error) {
	if strings.TrimSpace(partnerMerchantID) == "" {
		return "", integration.ErrMenuMissingPartner
	}
	resp, err := a.call(ctx, callSpec{
		op:     "self_serve_activation",
		method: http.MethodPost,
		url:    a.config.endpoint("self-serve/activation"),
		body:   grabActivationRequest{Partner: grabActivationPartner{MerchantID: partnerMerchantID}},
	})
	if err != nil {
		return "", err
	}

	var out grabActivationResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if out.ActivationURL != "" {
		return out.ActivationURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", integration.ErrActivationURLMissing
}

// GetMenuTrace tries the request ID first, then the job ID, under each accepted spelling
func (a *GrabAdapter) GetMenuTrace(ctx context.Context, requestID, jobID string) (*integration.MenuTrace, error) {
	type candidate struct{ key, value string }
	var candidates []candidate
	if requestID = strings.TrimSpace(requestID); requestID != "" {
		candidates = append(candidates, candidate{"requestId", requestID}, candidate{"requestID", requestID})
	}
	if jobID = strings.TrimSpace(jobID); jobID != "" {
		candidates = append(candidates, candidate{"jobId", jobID}, candidate{"jobID", jobID})
	}
	if len(candidates) == 0 {
		return nil, integration.ErrMenuNoSyncTrace
	}

	var lastErr error
	for _, c := range candidates {
		resp, err := a.call(ctx, callSpec{
			op:     "menu_trace",
			method: http.MethodGet,
			url:    a.config.endpoint("merchant/menu/trace"),
			query:  url.Values{c.key: []string{c.value}},
			retry:  true,
		})
		if err != nil {
			if errors.Is(err, integration.ErrPlatformRequestFailed) {
				lastErr = err
				continue
			}
			return nil, err
		}

		trace := &integration.MenuTrace{Key: c.key, Value: c.value, Body: map[string]any{}}
		if len(bytes.TrimSpace(resp.body)) > 0 {
			if err := json.Unmarshal(resp.body, &trace.Body); err != nil {
				return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
			}
		}
		return trace, nil
	}
	return nil, lastErr
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// MarkOrder marks an order ready or completed
func (a *GrabAdapter) MarkOrder(ctx context.Context, orderID string, mark integration.OrderMark) error {
	if !mark.IsValid() {
		return fmt.Errorf("%w: unknown mark status %d", shared.ErrInvalidInput, int(mark))
	}
	_, err := a.call(ctx, callSpec{
		op:     "mark_order",
		method: http.MethodPost,
		url:    a.config.endpoint("orders/mark"),
		body:   grabMarkOrderRequest{OrderID: orderID, MarkStatus: int(mark)},
	})
	return err
}

// UpdateOrderReadyTime sends the new ready time in UTC
func (a *GrabAdapter) UpdateOrderReadyTime(ctx context.Context, orderID string, readyAt time.Time) error {
	_, err := a.call(ctx, callSpec{
		op:     "order_ready_time",
		method: http.MethodPut,
		url:    a.config.endpoint("order/readytime"),
		body: grabReadyTimeRequest{
			OrderID:           orderID,
			NewOrderReadyTime: readyAt.UTC().Format(readyTimeLayout),
		},
	})
	return err
}

// ListOrders returns one page of a merchant's orders for a day
func (a *GrabAdapter) ListOrders(ctx context.Context, req integration.OrderListRequest) (*integration.OrderListPage, error) {
	if strings.TrimSpace(req.MerchantID) == "" {
		return nil, integration.ErrMenuMissingMerchant
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("merchantID", req.MerchantID)
	query.Set("date", req.Date.Format("2006-01-02"))
	query.Set("page", strconv.Itoa(page))

	resp, err := a.call(ctx, callSpec{
		op:     "list_orders",
		method: http.MethodGet,
		url:    a.config.endpoint("orders"),
		query:  query,
		retry:  true,
	})
	if err != nil {
		return nil, err
	}

	var out grabListOrdersResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	return &integration.OrderListPage{Orders: out.Orders, More: out.More}, nil
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

type callSpec struct {
	op     string
	method string
	url    string
	query  url.Values
	body   any
	// retry enables backoff on transient faults
	retry bool
}

type callResponse struct {
	status int
	body   []byte
}

// call runs one logical request. A 401 clears the token and is retried once with a
// fresh one. Transient faults are retried with exponential backoff when spec.retry is set.
func (a *GrabAdapter) call(ctx context.Context, spec callSpec) (_ *callResponse, callErr error) {
	ctx, span := telemetry.StartClientSpan(ctx, "grab."+spec.op,
		attribute.String("http.request.method", spec.method),
		attribute.String("grab.operation", spec.op),
	)
	defer func() { telemetry.EndSpan(span, callErr) }()

	var payload []byte
	if spec.body != nil {
		b, err := json.Marshal(spec.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", spec.op, err)
		}
		payload = b
	}

	var (
		last         *callResponse
		reauthorized bool
		attempts     int
	)
	operation := func() error {
		attempts++
		resp, err := a.doRequest(ctx, spec, payload)
		last = resp
		if err == nil {
			return nil
		}
		if errors.Is(err, integration.ErrPlatformAuthFailed) && !reauthorized {
			reauthorized = true
			a.tokens.Invalidate(ctx)
			resp, err = a.doRequest(ctx, spec, payload)
			last = resp
			if err == nil {
				return nil
			}
		}
		if !spec.retry || !integration.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.RetryNotify(operation, a.backoffPolicy(ctx, spec.retry), func(err error, wait time.Duration) {
		a.logger.Warn("Retrying Grab request",
			zap.String("operation", spec.op),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	span.SetAttributes(attribute.Int("grab.attempts", attempts))
	if err != nil {
		a.logger.Error("Grab request failed",
			zap.String("operation", spec.op),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return last, err
	}
	return last, nil
}

func (a *GrabAdapter) backoffPolicy(ctx context.Context, retry bool) backoff.BackOff {
	if !retry {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.config.InitialBackoff
	b.MaxInterval = a.config.MaxBackoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, a.config.MaxRetries), ctx)
}

// doRequest performs a single HTTP attempt bounded by the configured timeout
func (a *GrabAdapter) doRequest(ctx context.Context, spec callSpec, payload []byte) (*callResponse, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	target := spec.url
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, spec.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrPlatformUnavailable, err)
	}
	out := &callResponse{status: resp.StatusCode, body: respBody}

	a.logger.Debug("Grab response",
		zap.String("operation", spec.op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
	)

	switch {
	case resp.StatusCode < http.StatusBadRequest:
		return out, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return out, fmt.Errorf("%w: HTTP 401: %s", integration.ErrPlatformAuthFailed, errorMessage(respBody))
	case resp.StatusCode == http.StatusTooManyRequests:
		return out, fmt.Errorf("%w: HTTP 429: %s", integration.ErrPlatformRateLimited, errorMessage(respBody))
	case resp.StatusCode >= http.StatusInternalServerError:
		return out, fmt.Errorf("%w: HTTP %d: %s", integration.ErrPlatformUnavailable, resp.StatusCode, errorMessage(respBody))
	default:
		return out, fmt.Errorf("%w: HTTP %d: %s", integration.ErrPlatformRequestFailed, resp.StatusCode, errorMessage(respBody))
	}
}

// errorMessage extracts the most useful text from an error body
func errorMessage(body []byte) string {
	var e grabErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Reason != "":
			return e.Reason
		}
	}
	return truncate(bytes.TrimSpace(body), 200)
}
