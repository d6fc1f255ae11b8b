package handler

import (
	"github.com/gin-gonic/gin"

	pharmacyapp "github.com/pharmalink/backend/internal/application/pharmacy"
)

// PharmacyHandler handles pharmacy and pharmacy product endpoints
type PharmacyHandler struct {
	BaseHandler
	pharmacyService *pharmacyapp.Service
}

// NewPharmacyHandler creates a new PharmacyHandler
func NewPharmacyHandler(pharmacyService *pharmacyapp.Service) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyService: pharmacyService,
	}
}

// List handles GET /pharmacy
func (h *PharmacyHandler) List(c *gin.Context) {
	pharmacies, err := h.pharmacyService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pharmacies)
}

// GetByID handles GET /pharmacy/:pharmacyId
func (h *PharmacyHandler) GetByID(c *gin.Context) {
	p, err := h.pharmacyService.Get(c.Request.Context(), c.Param("pharmacyId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Create handles POST /pharmacy
func (h *PharmacyHandler) Create(c *gin.Context) {
	var req pharmacyapp.CreatePharmacyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.pharmacyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update handles PATCH /pharmacy/:pharmacyId
func (h *PharmacyHandler) Update(c *gin.Context) {
	var req pharmacyapp.UpdatePharmacyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.pharmacyService.Update(c.Request.Context(), c.Param("pharmacyId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete handles DELETE /pharmacy/:pharmacyId. The pharmacy is soft deleted.
func (h *PharmacyHandler) Delete(c *gin.Context) {
	if err := h.pharmacyService.Delete(c.Request.Context(), c.Param("pharmacyId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// AddProducts handles POST /pharmacy/:pharmacyId/products with a JSON array body
func (h *PharmacyHandler) AddProducts(c *gin.Context) {
	var reqs []pharmacyapp.ProductRequest
	if !h.BindJSON(c, &reqs) {
		return
	}

	p, err := h.pharmacyService.AddProducts(c.Request.Context(), c.Param("pharmacyId"), reqs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// UpdateProduct handles PATCH /pharmacy/:pharmacyId/products/:productId
func (h *PharmacyHandler) UpdateProduct(c *gin.Context) {
	var req pharmacyapp.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.pharmacyService.UpdateProduct(c.Request.Context(), c.Param("pharmacyId"), c.Param("productId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// DeleteProduct handles DELETE /pharmacy/:pharmacyId/products/:productId
func (h *PharmacyHandler) DeleteProduct(c *gin.Context) {
	p, err := h.pharmacyService.DeleteProduct(c.Request.Context(), c.Param("pharmacyId"), c.Param("productId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}
