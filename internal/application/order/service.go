// Package order orchestrates order placement: snapshot, persist, then dispatch
// to the pharmacy's vendor.
package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/pharmalink/backend/internal/infrastructure/logger"
	"github.com/pharmalink/backend/internal/infrastructure/telemetry"
	"github.com/pharmalink/backend/internal/infrastructure/validation"
)

// Service handles order business operations
type Service struct {
	orders      shared.KeyedStore[*order.Order]
	pharmacies  shared.KeyedStore[*pharmacy.Pharmacy]
	dispatchers integration.DispatcherRegistry
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewService creates a new order Service
func NewService(
	orders shared.KeyedStore[*order.Order],
	pharmacies shared.KeyedStore[*pharmacy.Pharmacy],
	dispatchers integration.DispatcherRegistry,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orders:      orders,
		pharmacies:  pharmacies,
		dispatchers: dispatchers,
		validator:   validation.New(),
		logger:      log.Named("order"),
	}
}

// Submit places an order for a product of the given pharmacy.
//
// The order is stored as initiated before the vendor is called. If the vendor
// call fails the stored order is left as is and ErrExternalDispatchFailed is
// returned.
func (s *Service) Submit(ctx context.Context, pharmacyID string, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrPharmacyID, pharmacyID),
	)
	defer span.End()

	p, found, err := s.pharmacies.Get(ctx, pharmacyID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !found {
		return nil, order.ErrPharmacyNotFound
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	product, ok := p.ActiveProduct(req.ProductID)
	if !ok {
		return nil, order.ErrProductNotFound
	}

	created, err := s.orders.Insert(ctx, order.New(p, product, req.Quantity, req.toCustomer()))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, created.ID,
		telemetry.SpanAttrProductID, product.ID,
		telemetry.SpanAttrQuantity, created.Quantity,
	)

	log := logger.Or(ctx, s.logger).With(
		zap.String("order_id", created.ID),
		zap.String("pharmacy_id", pharmacyID),
	)

	dispatcher, err := s.dispatchers.Get(created.Pharmacy.IntegrationName)
	if err != nil {
		log.Warn("No dispatcher for pharmacy", zap.String("integration_name", created.Pharmacy.IntegrationName))
		telemetry.RecordError(span, err)
		return nil, err
	}

	externalID, err := dispatcher.Submit(ctx, created)
	if err != nil {
		log.Error("Order dispatch failed",
			zap.String("vendor", dispatcher.Vendor().String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: %s", shared.ErrExternalDispatchFailed, dispatcher.Vendor())
	}

	if err := created.MarkSent(externalID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	updated, err := s.orders.Update(ctx, created)
	if err != nil {
		log.Error("Dispatched order could not be marked sent",
			zap.String("integration_id", externalID),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, err
	}

	log.Info("Order sent", zap.String("integration_id", externalID))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrIntegrationID, externalID,
		telemetry.SpanAttrOrderStatus, string(updated.Status),
	)
	telemetry.SetOK(span)

	response := ToOrderResponse(updated)
	return &response, nil
}

// Get returns an order. With includeExternal set and an order already
// accepted by its vendor, the vendor's view is attached as ExternalResult.
func (s *Service) Get(ctx context.Context, orderID string, includeExternal bool) (*OrderResponse, error) {
	o, found, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, order.ErrOrderNotFound
	}

	response := ToOrderResponse(o)
	if !includeExternal || !o.Dispatched() {
		return &response, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order", "retrieve_external",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, o.ID),
		telemetry.WithAttribute(telemetry.SpanAttrIntegrationID, o.IntegrationID),
	)
	defer span.End()

	dispatcher, err := s.dispatchers.Get(o.Pharmacy.IntegrationName)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	raw, err := dispatcher.Retrieve(ctx, o.IntegrationID)
	if err != nil {
		logger.Or(ctx, s.logger).Error("External order lookup failed",
			zap.String("order_id", o.ID),
			zap.String("integration_id", o.IntegrationID),
			zap.String("vendor", dispatcher.Vendor().String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("%w: %s", shared.ErrExternalDispatchFailed, dispatcher.Vendor())
	}

	response.ExternalResult = raw
	return &response, nil
}

// List returns every active order without contacting any vendor
func (s *Service) List(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}
