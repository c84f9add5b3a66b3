package router

import (
	"github.com/deppfellow/conference-central/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the endpoints that sit outside /api/v1.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.StaticFS("/static", handler.StaticFiles())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
