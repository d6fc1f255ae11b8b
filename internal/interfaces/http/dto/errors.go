package dto

import "net/http"

// Transport-level error codes, produced by the HTTP layer itself
const (
	// ErrCodeInternal is used for errors that carry no domain code
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when a payload fails field validation
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when the request body cannot be decoded
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeNotFound is used for unknown routes
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Domain error codes, carried by shared.DomainError values
const (
	ErrCodeDatabaseFailure          = "DATABASE_OPERATION_FAILURE"
	ErrCodeEntityNotFound           = "ENTITY_NOT_FOUND"
	ErrCodeEntityAlreadyExists      = "ENTITY_ALREADY_EXISTS"
	ErrCodeExternalAPIFailure       = "EXTERNAL_API_REQ_FAILURE"
	ErrCodePharmacyNotFound         = "PHARMACY_NOT_FOUND"
	ErrCodePharmacyProductNotFound  = "PHARMACY_PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound            = "ORDER_NOT_FOUND"
	ErrCodeOrderPharmacyNotFound    = "ORDER_PHARMACY_NOT_FOUND"
	ErrCodeOrderProductNotFound     = "ORDER_PHARMACY_PRODUCT_NOT_FOUND"
	ErrCodeUnsupportedOrderHandler  = "UNSUPPORTED_ORDER_HANDLER"
	ErrCodeOrderHandlerConfigAbsent = "ORDER_HANDLER_API_CONFIG_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Lookups of the pharmacy and order resources report 400, not 404, because
// the id arrives as part of the request being validated.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeDatabaseFailure:          http.StatusInternalServerError,
	ErrCodeEntityNotFound:           http.StatusNotFound,
	ErrCodeEntityAlreadyExists:      http.StatusBadRequest,
	ErrCodeExternalAPIFailure:       http.StatusInternalServerError,
	ErrCodePharmacyNotFound:         http.StatusBadRequest,
	ErrCodePharmacyProductNotFound:  http.StatusBadRequest,
	ErrCodeOrderNotFound:            http.StatusBadRequest,
	ErrCodeOrderPharmacyNotFound:    http.StatusBadRequest,
	ErrCodeOrderProductNotFound:     http.StatusBadRequest,
	ErrCodeUnsupportedOrderHandler:  http.StatusBadRequest,
	ErrCodeOrderHandlerConfigAbsent: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
