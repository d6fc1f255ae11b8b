package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/infrastructure/logger"
	"github.com/pharmalink/backend/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum accepted vendor response body (10MB)
const maxResponseSize = 10 * 1024 * 1024

// DefaultTimeout bounds a single vendor request when none is configured
const DefaultTimeout = 30 * time.Second

// Operation names recorded on spans and metrics
const (
	opSubmit   = "submit"
	opRetrieve = "retrieve"
)

// HTTPAdapter implements integration.OrderDispatcher for vendors exposing
// the common REST order API, differing only in field names.
type HTTPAdapter struct {
	mapping    FieldMapping
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.DispatchMetrics
}

// AdapterOption configures an HTTPAdapter
type AdapterOption func(*HTTPAdapter)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(c *http.Client) AdapterOption {
	return func(a *HTTPAdapter) {
		a.httpClient = c
	}
}

// WithAdapterLogger sets the fallback logger used when the context carries none
func WithAdapterLogger(l *zap.Logger) AdapterOption {
	return func(a *HTTPAdapter) {
		a.logger = l
	}
}

// WithMetrics records vendor call counts and latency
func WithMetrics(m *telemetry.DispatchMetrics) AdapterOption {
	return func(a *HTTPAdapter) {
		a.metrics = m
	}
}

// NewHTTPAdapter creates an adapter for the vendor described by mapping.
// An empty baseURL yields an adapter whose every call fails with
// integration.ErrIntegrationNotConfigured.
func NewHTTPAdapter(mapping FieldMapping, baseURL string, timeout time.Duration, opts ...AdapterOption) *HTTPAdapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	a := &HTTPAdapter{
		mapping: mapping,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Vendor returns the vendor this adapter talks to
func (a *HTTPAdapter) Vendor() integration.Vendor {
	return a.mapping.Vendor
}

// Configured reports whether a base address is set
func (a *HTTPAdapter) Configured() bool {
	return a.baseURL != ""
}

// Submit posts the order to the vendor and returns the vendor's order id.
func (a *HTTPAdapter) Submit(ctx context.Context, o *order.Order) (externalID string, err error) {
	if !a.Configured() {
		return "", integration.ErrIntegrationNotConfigured
	}

	ctx, span := a.startSpan(ctx, opSubmit,
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, o.ID),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, o.Product.ID),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, o.Quantity),
	)
	start := time.Now()
	defer func() {
		a.finish(ctx, span, opSubmit, start, err)
	}()

	body, err := gojson.Marshal(a.mapping.Payload(o))
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode order: %w", a.mapping.Vendor, err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, a.baseURL+"/orders", body)
	if err != nil {
		return "", err
	}

	externalID, err = a.extractID(respBody)
	if err != nil {
		return "", err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrIntegrationID, externalID)

	logger.Or(ctx, a.logger).Debug("Order accepted by vendor",
		zap.String("vendor", a.mapping.Vendor.String()),
		zap.String("order_id", o.ID),
		zap.String("integration_id", externalID),
	)
	return externalID, nil
}

// Retrieve fetches the vendor's view of an order and returns it verbatim.
func (a *HTTPAdapter) Retrieve(ctx context.Context, externalID string) (_ json.RawMessage, err error) {
	if !a.Configured() {
		return nil, integration.ErrIntegrationNotConfigured
	}

	ctx, span := a.startSpan(ctx, opRetrieve,
		telemetry.WithAttribute(telemetry.SpanAttrIntegrationID, externalID),
	)
	start := time.Now()
	defer func() {
		a.finish(ctx, span, opRetrieve, start, err)
	}()

	respBody, err := a.doRequest(ctx, http.MethodGet, a.baseURL+"/orders/"+url.PathEscape(externalID), nil)
	if err != nil {
		return nil, err
	}
	if !gojson.Valid(respBody) {
		return nil, fmt.Errorf("%w: %s returned a non-JSON body", integration.ErrVendorInvalidResponse, a.mapping.Vendor)
	}
	return respBody, nil
}

// extractID reads the vendor id field, accepting a JSON string or number
func (a *HTTPAdapter) extractID(body []byte) (string, error) {
	dec := gojson.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var resp map[string]any
	if err := dec.Decode(&resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", integration.ErrVendorInvalidResponse, err)
	}

	switch id := resp[a.mapping.IDField].(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case gojson.Number:
		return id.String(), nil
	}
	return "", fmt.Errorf("%w: missing %s", integration.ErrVendorInvalidResponse, a.mapping.IDField)
}

// doRequest sends a JSON request and returns the capped response body
func (a *HTTPAdapter) doRequest(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", a.mapping.Vendor, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrHTTPStatus, resp.StatusCode)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrVendorUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrVendorRequestFailed, resp.StatusCode)
	}
	return respBody, nil
}

func (a *HTTPAdapter) startSpan(ctx context.Context, op string, opts ...telemetry.SpanOption) (context.Context, trace.Span) {
	opts = append(opts,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrVendor, a.mapping.Vendor.String()),
	)
	return telemetry.StartServiceSpan(ctx, "dispatch", op, opts...)
}

func (a *HTTPAdapter) finish(ctx context.Context, span trace.Span, op string, start time.Time, err error) {
	a.metrics.RecordCall(ctx, a.mapping.Vendor.String(), op, time.Since(start), err)
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		telemetry.SetOK(span)
	}
	span.End()
}
