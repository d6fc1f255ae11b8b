package order

import "github.com/pharmalink/backend/internal/domain/shared"

var (
	ErrOrderNotFound        = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrPharmacyNotFound     = shared.NewDomainError("ORDER_PHARMACY_NOT_FOUND", "Pharmacy not found for order")
	ErrProductNotFound      = shared.NewDomainError("ORDER_PHARMACY_PRODUCT_NOT_FOUND", "Pharmacy product not found for order")
	ErrInvalidTransition    = shared.NewDomainError("ORDER_INVALID_TRANSITION", "Order can only be sent once")
	ErrMissingIntegrationID = shared.NewDomainError("ORDER_MISSING_INTEGRATION_ID", "Integration id is required to mark an order as sent")
)
