package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeDatabaseFailure, http.StatusInternalServerError},
		{ErrCodeEntityNotFound, http.StatusNotFound},
		{ErrCodeEntityAlreadyExists, http.StatusBadRequest},
		{ErrCodeExternalAPIFailure, http.StatusInternalServerError},
		{ErrCodePharmacyNotFound, http.StatusBadRequest},
		{ErrCodePharmacyProductNotFound, http.StatusBadRequest},
		{ErrCodeOrderNotFound, http.StatusBadRequest},
		{ErrCodeOrderPharmacyNotFound, http.StatusBadRequest},
		{ErrCodeOrderProductNotFound, http.StatusBadRequest},
		{ErrCodeUnsupportedOrderHandler, http.StatusBadRequest},
		{ErrCodeOrderHandlerConfigAbsent, http.StatusInternalServerError},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeOrderNotFound, "Order not found", "req-1")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeOrderNotFound, resp.Error.Code)
	assert.Equal(t, "Order not found", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestResponse_JSONShape(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		raw, err := json.Marshal(NewSuccessResponse(map[string]string{"id": "p-1"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"id":"p-1"}}`, string(raw))
	})

	t.Run("validation carries details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
			{Field: "quantity", Message: "Must be at least 1"},
		})
		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"error": {"code": "ERR_VALIDATION", "message": "Request validation failed"},
			"details": [{"field": "quantity", "message": "Must be at least 1"}]
		}`, string(raw))
	})
}
