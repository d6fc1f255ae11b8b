package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	orderapp "github.com/pharmalink/backend/internal/application/order"
	pharmacyapp "github.com/pharmalink/backend/internal/application/pharmacy"
	"github.com/pharmalink/backend/internal/domain/order"
	"github.com/pharmalink/backend/internal/domain/pharmacy"
	"github.com/pharmalink/backend/internal/infrastructure/dispatch"
	"github.com/pharmalink/backend/internal/infrastructure/store"
	"github.com/pharmalink/backend/internal/interfaces/http/dto"
	"github.com/pharmalink/backend/internal/interfaces/http/middleware"
	"github.com/pharmalink/backend/internal/interfaces/http/router"
)

// envelope is the typed form of dto.Response used to read test responses
type envelope[T any] struct {
	Success bool                   `json:"success"`
	Data    T                      `json:"data"`
	Error   *dto.ErrorInfo         `json:"error"`
	Details []dto.ValidationDetail `json:"details"`
}

func decodeAs[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// testAPI is the full HTTP surface wired to in-memory stores and a fake
// HealthMart vendor. The vendor handler can be swapped per test.
type testAPI struct {
	engine     *gin.Engine
	pharmacies *store.MemoryStore[*pharmacy.Pharmacy]
	orders     *store.MemoryStore[*order.Order]

	mu     sync.Mutex
	vendor http.HandlerFunc
}

// setVendor replaces the fake vendor's behavior
func (a *testAPI) setVendor(h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.vendor = h
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	api := &testAPI{
		pharmacies: store.NewMemoryStore(pharmacy.Namespace, func() *pharmacy.Pharmacy { return &pharmacy.Pharmacy{} }),
		orders:     store.NewMemoryStore(order.Namespace, func() *order.Order { return &order.Order{} }),
		vendor: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.Method == http.MethodPost {
				_, _ = w.Write([]byte(`{"healthMartId":"hm-1001"}`))
				return
			}
			_, _ = w.Write([]byte(`{"healthMartId":"hm-1001","state":"packed"}`))
		},
	}

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		h := api.vendor
		api.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(vendor.Close)

	registry := dispatch.NewRegistryOf(
		dispatch.NewHTTPAdapter(dispatch.HealthMartMapping, vendor.URL, 2*time.Second),
		dispatch.NewHTTPAdapter(dispatch.CarePlusMapping, "", 2*time.Second),
	)

	pharmacyHandler := NewPharmacyHandler(pharmacyapp.NewService(api.pharmacies, nil))
	orderHandler := NewOrderHandler(orderapp.NewService(api.orders, api.pharmacies, registry, nil))
	systemHandler := NewSystemHandler("pharmalink", "test", store.NewMemoryBackend(), registry)

	api.engine = gin.New()
	api.engine.Use(middleware.RequestID())
	api.engine.GET("/health", systemHandler.Health)
	router.NewRouter(api.engine).
		Register(PharmacyRoutes(pharmacyHandler)).
		Register(OrderRoutes(orderHandler)).
		Register(SystemRoutes(systemHandler)).
		Setup()

	return api
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

const pharmacyBody = `{
	"integrationName": "healthmart",
	"name": "Main Street Pharmacy",
	"address": "1 Main St",
	"city": "Springfield",
	"state": "IL",
	"zipcode": "62701",
	"country": "US",
	"fax": "555-0100",
	"phone": "555-0101"
}`

// createPharmacy registers a pharmacy with one product and returns both ids
func (a *testAPI) createPharmacy(t *testing.T, body string) (pharmacyID, productID string) {
	t.Helper()

	w := a.do(http.MethodPost, "/api/v1/pharmacy", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeAs[pharmacyapp.PharmacyResponse](t, w)

	w = a.do(http.MethodPost, "/api/v1/pharmacy/"+created.Data.ID+"/products",
		`[{"label":"Aspirin 100mg","integrationName":"ASP-100"}]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	withProduct := decodeAs[pharmacyapp.PharmacyResponse](t, w)
	require.Len(t, withProduct.Data.Products, 1)

	return created.Data.ID, withProduct.Data.Products[0].ID
}
