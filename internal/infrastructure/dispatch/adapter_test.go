package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/domain/pharmacy"
)

func testOrder(vendor integration.Vendor) *order.Order {
	p := pharmacy.New(vendor.String(), pharmacy.Details{Name: "Test Pharmacy"})
	product := p.AddProduct("Aspirin 100mg", "ASP-100")
	o := order.New(p, product, 3, order.Customer{
		FullName: "Jane Doe",
		Address:  "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  "US",
	})
	o.ID = "order-1"
	return o
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestHTTPAdapter_Submit_WireFormat(t *testing.T) {
	for _, mapping := range []FieldMapping{HealthMartMapping, CarePlusMapping, QuickCareMapping} {
		t.Run(mapping.Vendor.String(), func(t *testing.T) {
			var received map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/orders", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"`+mapping.IDField+`":"ext-42"}`)
			}))
			defer server.Close()

			adapter := NewHTTPAdapter(mapping, server.URL+"/", time.Second)
			id, err := adapter.Submit(context.Background(), testOrder(mapping.Vendor))
			require.NoError(t, err)
			assert.Equal(t, "ext-42", id)

			assert.Equal(t, "ASP-100", received[mapping.Product])
			assert.Equal(t, float64(3), received[mapping.Quantity])

			customer, ok := received[mapping.CustomerObject].(map[string]any)
			require.True(t, ok, "customer object %s missing", mapping.CustomerObject)
			assert.Equal(t, map[string]any{
				mapping.CustomerPrefix + "Name":    "Jane Doe",
				mapping.CustomerPrefix + "Address": "1 Main St",
				mapping.CustomerPrefix + "City":    "Springfield",
				mapping.CustomerPrefix + "State":   "IL",
				mapping.CustomerPrefix + "Zipcode": "62701",
				mapping.CustomerPrefix + "Country": "US",
			}, customer)
			assert.Len(t, received, 3)
		})
	}
}

func TestHTTPAdapter_Submit_Responses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantID  string
		wantErr error
	}{
		{name: "string id", status: http.StatusCreated, body: `{"carePlusId":"cp-1"}`, wantID: "cp-1"},
		{name: "numeric id", status: http.StatusOK, body: `{"carePlusId":12345678901}`, wantID: "12345678901"},
		{name: "missing id", status: http.StatusOK, body: `{"other":"x"}`, wantErr: integration.ErrVendorInvalidResponse},
		{name: "empty id", status: http.StatusOK, body: `{"carePlusId":""}`, wantErr: integration.ErrVendorInvalidResponse},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: integration.ErrVendorInvalidResponse},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: integration.ErrVendorRequestFailed},
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantErr: integration.ErrVendorRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			adapter := NewHTTPAdapter(CarePlusMapping, server.URL, time.Second)
			id, err := adapter.Submit(context.Background(), testOrder(integration.VendorCarePlus))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestHTTPAdapter_Submit_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	adapter := NewHTTPAdapter(QuickCareMapping, addr, time.Second)
	_, err := adapter.Submit(context.Background(), testOrder(integration.VendorQuickCare))
	assert.ErrorIs(t, err, integration.ErrVendorUnavailable)
}

func TestHTTPAdapter_NotConfigured(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, nil
	})}
	adapter := NewHTTPAdapter(HealthMartMapping, "", time.Second, WithHTTPClient(client))

	assert.False(t, adapter.Configured())

	_, err := adapter.Submit(context.Background(), testOrder(integration.VendorHealthMart))
	assert.ErrorIs(t, err, integration.ErrIntegrationNotConfigured)

	_, err = adapter.Retrieve(context.Background(), "ext-1")
	assert.ErrorIs(t, err, integration.ErrIntegrationNotConfigured)

	assert.Zero(t, calls)
}

// ---------------------------------------------------------------------------
// Retrieve
// ---------------------------------------------------------------------------

func TestHTTPAdapter_Retrieve(t *testing.T) {
	const stored = `{"healthMartId":"hm/7","healthMartQuantity":2}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/hm%2F7", r.URL.EscapedPath())
		_, _ = io.WriteString(w, stored)
	}))
	defer server.Close()

	adapter := NewHTTPAdapter(HealthMartMapping, server.URL, time.Second)
	raw, err := adapter.Retrieve(context.Background(), "hm/7")
	require.NoError(t, err)
	assert.JSONEq(t, stored, string(raw))
}

func TestHTTPAdapter_Retrieve_Failures(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewHTTPAdapter(HealthMartMapping, server.URL, time.Second).Retrieve(context.Background(), "x")
		assert.ErrorIs(t, err, integration.ErrVendorRequestFailed)
	})

	t.Run("oversized body is truncated and rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"pad":"`+strings.Repeat("a", maxResponseSize)+`"}`)
		}))
		defer server.Close()

		_, err := NewHTTPAdapter(HealthMartMapping, server.URL, time.Second).Retrieve(context.Background(), "x")
		assert.ErrorIs(t, err, integration.ErrVendorInvalidResponse)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
