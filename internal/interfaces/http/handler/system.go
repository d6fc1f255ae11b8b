package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmalink/backend/internal/domain/integration"
	"github.com/pharmalink/backend/internal/interfaces/http/dto"
)

// StoreStatus reports on the keyed store backend
type StoreStatus interface {
	Driver() string
	Ping(ctx context.Context) error
}

// VendorLister lists the vendors orders can be dispatched to
type VendorLister interface {
	Vendors() []integration.Vendor
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	store     StoreStatus
	vendors   VendorLister
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, store StoreStatus, vendors VendorLister) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		store:     store,
		vendors:   vendors,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	GoVersion   string   `json:"go_version"`
	Uptime      string   `json:"uptime"`
	StoreDriver string   `json:"store_driver"`
	Vendors     []string `json:"vendors"`
}

// GetSystemInfo handles GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Vendors:   []string{},
	}
	if h.store != nil {
		info.StoreDriver = h.store.Driver()
	}
	if h.vendors != nil {
		for _, v := range h.vendors.Vendors() {
			info.Vendors = append(info.Vendors, v.String())
		}
	}

	h.Success(c, info)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health handles GET /health. It reports 503 while the store is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Store: "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			_ = c.Error(err)
			resp = HealthResponse{Status: "unhealthy", Store: "unavailable"}
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
			return
		}
	}
	h.Success(c, resp)
}
