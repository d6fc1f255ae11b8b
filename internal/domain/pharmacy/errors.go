package pharmacy

import "github.com/pharmalink/backend/internal/domain/shared"

var (
	ErrPharmacyNotFound        = shared.NewDomainError("PHARMACY_NOT_FOUND", "Pharmacy not found")
	ErrPharmacyProductNotFound = shared.NewDomainError("PHARMACY_PRODUCT_NOT_FOUND", "Pharmacy product not found")
)
