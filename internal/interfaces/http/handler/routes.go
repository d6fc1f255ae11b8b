package handler

import (
	"github.com/pharmalink/backend/internal/interfaces/http/router"
)

// PharmacyRoutes creates the route group for pharmacy endpoints
func PharmacyRoutes(h *PharmacyHandler) *router.DomainGroup {
	group := router.NewDomainGroup("pharmacy", "/pharmacy")

	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:pharmacyId", h.GetByID)
	group.PATCH("/:pharmacyId", h.Update)
	group.DELETE("/:pharmacyId", h.Delete)

	products := group.Group("pharmacy-products", "/:pharmacyId/products")
	products.POST("", h.AddProducts)
	products.PATCH("/:productId", h.UpdateProduct)
	products.DELETE("/:productId", h.DeleteProduct)

	return group
}

// OrderRoutes creates the route group for order endpoints
func OrderRoutes(h *OrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("orders", "/orders")

	group.GET("", h.List)
	group.GET("/:orderId", h.GetByID)
	group.POST("/:pharmacyId", h.Create)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/ping", h.Ping)
	group.GET("/info", h.GetSystemInfo)

	return group
}
