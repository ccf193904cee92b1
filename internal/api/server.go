// Package api wires the Echo server, Huma operations, and middleware for
// the narxly catalog API.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasurbekn/narxly/internal/api/handlers"
	"github.com/jasurbekn/narxly/internal/api/middleware"
	"github.com/jasurbekn/narxly/internal/catalog"
)

const (
	apiTitle   = "narxly API"
	apiVersion = "1.0.0"
)

// NewServer builds the Echo instance with all routes and middleware
// registered. The caller owns Start/Shutdown.
func NewServer(svc *catalog.Service, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(svc)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaAPI := humaecho.New(e, huma.DefaultConfig(apiTitle, apiVersion))
	handlers.RegisterProductRoutes(humaAPI, handlers.NewProductsHandler(svc))
	handlers.RegisterCategoryRoutes(humaAPI, handlers.NewCategoriesHandler(svc))

	return e
}
