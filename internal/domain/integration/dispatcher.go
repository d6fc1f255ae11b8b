package integration

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Dispatcher Errors
// ---------------------------------------------------------------------------

var (
	// Registry and configuration errors, surfaced to API callers
	ErrUnsupportedIntegration   = shared.NewDomainError("UNSUPPORTED_ORDER_HANDLER", "Unsupported order handler")
	ErrIntegrationNotConfigured = shared.NewDomainError("ORDER_HANDLER_API_CONFIG_NOT_FOUND", "Order handler API configuration not found")

	// Vendor call errors, normalized by the order service before reaching callers
	ErrVendorUnavailable     = errors.New("integration: vendor temporarily unavailable")
	ErrVendorRequestFailed   = errors.New("integration: vendor request failed")
	ErrVendorInvalidResponse = errors.New("integration: invalid vendor response")
)

// ---------------------------------------------------------------------------
// Vendor represents the integration name of a pharmacy vendor
// ---------------------------------------------------------------------------

// Vendor represents the integration name of a pharmacy vendor
type Vendor string

const (
	// VendorHealthMart represents the HealthMart fulfillment API
	VendorHealthMart Vendor = "healthmart"
	// VendorCarePlus represents the CarePlus fulfillment API
	VendorCarePlus Vendor = "careplus"
	// VendorQuickCare represents the QuickCare fulfillment API
	VendorQuickCare Vendor = "quickcare"
)

// IsValid returns true if the vendor is one the system knows how to reach
func (v Vendor) IsValid() bool {
	switch v {
	case VendorHealthMart, VendorCarePlus, VendorQuickCare:
		return true
	}
	return false
}

// String returns the string representation of the vendor
func (v Vendor) String() string {
	return string(v)
}

// AllVendors returns every supported vendor
func AllVendors() []Vendor {
	return []Vendor{VendorHealthMart, VendorCarePlus, VendorQuickCare}
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// OrderDispatcher submits orders to one vendor and reads them back.
//
// Submit returns the vendor-assigned id of the accepted order. Retrieve
// returns the vendor's representation of an order without interpretation.
// Neither call retries.
type OrderDispatcher interface {
	Vendor() Vendor
	Submit(ctx context.Context, o *order.Order) (string, error)
	Retrieve(ctx context.Context, externalID string) (json.RawMessage, error)
}

// DispatcherRegistry resolves the dispatcher for an integration name.
// Unknown names fail with ErrUnsupportedIntegration.
type DispatcherRegistry interface {
	Get(integrationName string) (OrderDispatcher, error)
}
