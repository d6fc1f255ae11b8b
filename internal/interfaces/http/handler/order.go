package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/pharmalink/backend/internal/application/order"
)

// OrderHandler handles order placement and lookup endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// List handles GET /orders. Vendors are never contacted.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID handles GET /orders/:orderId. With ?queryExternal=true the
// vendor's copy of the order is attached as externalResult.
func (h *OrderHandler) GetByID(c *gin.Context) {
	includeExternal := c.Query("queryExternal") == "true"

	o, err := h.orderService.Get(c.Request.Context(), c.Param("orderId"), includeExternal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Create handles POST /orders/:pharmacyId
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.orderService.Submit(c.Request.Context(), c.Param("pharmacyId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
