package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pharmacyapp "github.com/pharmalink/backend/internal/application/pharmacy"
	"github.com/pharmalink/backend/internal/interfaces/http/dto"
)

func TestPharmacyHandler_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/pharmacy", pharmacyBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeAs[pharmacyapp.PharmacyResponse](t, w)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "healthmart", created.Data.IntegrationName)
	assert.Empty(t, created.Data.Products)

	w = api.do(http.MethodGet, "/api/v1/pharmacy/"+created.Data.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeAs[pharmacyapp.PharmacyResponse](t, w)
	assert.Equal(t, "Main Street Pharmacy", got.Data.Name)

	w = api.do(http.MethodGet, "/api/v1/pharmacy", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeAs[[]pharmacyapp.PharmacyResponse](t, w)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.Data.ID, list.Data[0].ID)
}

func TestPharmacyHandler_Create_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   string
		wantFields []string
	}{
		{
			name:     "malformed json",
			body:     `{"name": `,
			wantCode: dto.ErrCodeInvalidJSON,
		},
		{
			name:     "wrong body type",
			body:     `["not", "an", "object"]`,
			wantCode: dto.ErrCodeInvalidJSON,
		},
		{
			name:       "missing fields",
			body:       `{"integrationName":"healthmart","name":"Only Name"}`,
			wantCode:   dto.ErrCodeValidation,
			wantFields: []string{"address", "city", "state", "zipcode", "country", "fax", "phone"},
		},
		{
			name:       "undeclared key",
			body:       strings.Replace(pharmacyBody, "{", `{"website": "https://example.com",`, 1),
			wantCode:   dto.ErrCodeValidation,
			wantFields: []string{"website"},
		},
		{
			name:       "too long",
			body:       strings.Replace(pharmacyBody, `"555-0100"`, `"`+strings.Repeat("9", 21)+`"`, 1),
			wantCode:   dto.ErrCodeValidation,
			wantFields: []string{"fax"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(http.MethodPost, "/api/v1/pharmacy", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeAs[any](t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)

			fields := make([]string, len(resp.Details))
			for i, d := range resp.Details {
				fields[i] = d.Field
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
			assert.Zero(t, api.pharmacies.Len())
		})
	}
}

func TestPharmacyHandler_Get_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/pharmacy/missing", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeAs[any](t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PHARMACY_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Pharmacy not found", resp.Error.Message)
}

func TestPharmacyHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.createPharmacy(t, pharmacyBody)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := api.do(http.MethodPatch, "/api/v1/pharmacy/"+id, `{"city":"Shelbyville"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeAs[pharmacyapp.PharmacyResponse](t, w)
		assert.Equal(t, "Shelbyville", resp.Data.City)
		assert.Equal(t, "Main Street Pharmacy", resp.Data.Name)
		assert.Len(t, resp.Data.Products, 1)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		w := api.do(http.MethodPatch, "/api/v1/pharmacy/"+id, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("empty value rejected", func(t *testing.T) {
		w := api.do(http.MethodPatch, "/api/v1/pharmacy/"+id, `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "name", resp.Details[0].Field)
	})

	t.Run("integration name is not patchable", func(t *testing.T) {
		w := api.do(http.MethodPatch, "/api/v1/pharmacy/"+id, `{"city":"Ogdenville","integrationName":"careplus"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "integrationName", resp.Details[0].Field)
	})

	t.Run("unknown pharmacy", func(t *testing.T) {
		w := api.do(http.MethodPatch, "/api/v1/pharmacy/missing", `{"city":"Ogdenville"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "PHARMACY_NOT_FOUND", resp.Error.Code)
	})
}

func TestPharmacyHandler_Delete(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.createPharmacy(t, pharmacyBody)

	w := api.do(http.MethodDelete, "/api/v1/pharmacy/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/pharmacy", "")
	list := decodeAs[[]pharmacyapp.PharmacyResponse](t, w)
	assert.Empty(t, list.Data)

	// soft-deleted pharmacies stay addressable by id
	w = api.do(http.MethodGet, "/api/v1/pharmacy/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPharmacyHandler_Products(t *testing.T) {
	api := newTestAPI(t)
	id, productID := api.createPharmacy(t, pharmacyBody)
	productsURL := "/api/v1/pharmacy/" + id + "/products"

	t.Run("add skips duplicates", func(t *testing.T) {
		w := api.do(http.MethodPost, productsURL,
			`[{"label":"Aspirin again","integrationName":"ASP-100"},{"label":"Ibuprofen","integrationName":"IBU-200"}]`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeAs[pharmacyapp.PharmacyResponse](t, w)
		require.Len(t, resp.Data.Products, 2)
		assert.Equal(t, "Aspirin 100mg", resp.Data.Products[0].Label)
		assert.Equal(t, "IBU-200", resp.Data.Products[1].IntegrationName)
	})

	t.Run("add requires a non-empty array", func(t *testing.T) {
		w := api.do(http.MethodPost, productsURL, `[]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("add rejects an object body", func(t *testing.T) {
		w := api.do(http.MethodPost, productsURL, `{"label":"x","integrationName":"y"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("relabel", func(t *testing.T) {
		w := api.do(http.MethodPatch, productsURL+"/"+productID,
			`{"label":"Aspirin 100mg (30 tabs)","integrationName":"ASP-100"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeAs[pharmacyapp.PharmacyResponse](t, w)
		assert.Equal(t, "Aspirin 100mg (30 tabs)", resp.Data.Products[0].Label)
	})

	t.Run("relabel unknown product", func(t *testing.T) {
		w := api.do(http.MethodPatch, productsURL+"/missing",
			`{"label":"x","integrationName":"ASP-100"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeAs[any](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "PHARMACY_PRODUCT_NOT_FOUND", resp.Error.Code)
	})

	t.Run("delete hides product", func(t *testing.T) {
		w := api.do(http.MethodDelete, productsURL+"/"+productID, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeAs[pharmacyapp.PharmacyResponse](t, w)
		for _, p := range resp.Data.Products {
			assert.NotEqual(t, productID, p.ID)
		}

		w = api.do(http.MethodDelete, productsURL+"/"+productID, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
