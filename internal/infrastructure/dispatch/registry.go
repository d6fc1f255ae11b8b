package dispatch

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/infrastructure/config"
	"github.com/pharmalink/backend/internal/infrastructure/telemetry"
)

// Registry maps integration names to their dispatchers.
// It is built once at startup and only read afterwards.
type Registry struct {
	dispatchers map[integration.Vendor]integration.OrderDispatcher
}

// RegistryOption configures adapters built by NewRegistry
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger     *zap.Logger
	metrics    *telemetry.DispatchMetrics
	httpClient *http.Client
}

// WithRegistryLogger sets the logger handed to each adapter
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = l
	}
}

// WithRegistryMetrics shares one metrics set across adapters
func WithRegistryMetrics(m *telemetry.DispatchMetrics) RegistryOption {
	return func(o *registryOptions) {
		o.metrics = m
	}
}

// WithRegistryHTTPClient makes every adapter use c
func WithRegistryHTTPClient(c *http.Client) RegistryOption {
	return func(o *registryOptions) {
		o.httpClient = c
	}
}

// NewRegistry builds one HTTPAdapter per known vendor from cfg.
// Vendors without a base address are still registered; their calls fail with
// integration.ErrIntegrationNotConfigured.
func NewRegistry(cfg config.IntegrationConfig, opts ...RegistryOption) *Registry {
	o := &registryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	baseURLs := map[integration.Vendor]string{
		integration.VendorHealthMart: cfg.HealthMartAPI,
		integration.VendorCarePlus:   cfg.CarePlusAPI,
		integration.VendorQuickCare:  cfg.QuickCareAPI,
	}

	dispatchers := make([]integration.OrderDispatcher, 0, len(baseURLs))
	for _, vendor := range integration.AllVendors() {
		mapping, _ := MappingFor(vendor)
		adapterOpts := []AdapterOption{
			WithAdapterLogger(o.logger.With(zap.String("vendor", vendor.String()))),
			WithMetrics(o.metrics),
		}
		if o.httpClient != nil {
			adapterOpts = append(adapterOpts, WithHTTPClient(o.httpClient))
		}
		if baseURLs[vendor] == "" {
			o.logger.Warn("Vendor API address not configured", zap.String("vendor", vendor.String()))
		}
		dispatchers = append(dispatchers, NewHTTPAdapter(mapping, baseURLs[vendor], cfg.Timeout, adapterOpts...))
	}

	return NewRegistryOf(dispatchers...)
}

// NewRegistryOf registers the given dispatchers under their vendor names.
// A later dispatcher for the same vendor replaces an earlier one.
func NewRegistryOf(dispatchers ...integration.OrderDispatcher) *Registry {
	r := &Registry{dispatchers: make(map[integration.Vendor]integration.OrderDispatcher, len(dispatchers))}
	for _, d := range dispatchers {
		r.dispatchers[d.Vendor()] = d
	}
	return r
}

// Get returns the dispatcher registered for integrationName
func (r *Registry) Get(integrationName string) (integration.OrderDispatcher, error) {
	d, ok := r.dispatchers[integration.Vendor(integrationName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", integration.ErrUnsupportedIntegration, integrationName)
	}
	return d, nil
}

// Vendors lists registered vendors in a stable order
func (r *Registry) Vendors() []integration.Vendor {
	vendors := make([]integration.Vendor, 0, len(r.dispatchers))
	for _, v := range integration.AllVendors() {
		if _, ok := r.dispatchers[v]; ok {
			vendors = append(vendors, v)
		}
	}
	return vendors
}

var _ integration.DispatcherRegistry = (*Registry)(nil)
