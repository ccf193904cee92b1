package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jasurbekn/narxly/internal/catalog"
)

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	service *catalog.Service
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(svc *catalog.Service) *HealthHandler {
	return &HealthHandler{service: svc}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once the first catalog snapshot has been built,
// 503 before that.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.service.Ready() {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
