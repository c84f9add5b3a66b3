package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/conference-central/internal/middleware"
	"github.com/deppfellow/conference-central/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// checkFunc probes one dependency.
type checkFunc func(ctx context.Context) error

func (h *HealthHandler) checks() map[string]checkFunc {
	all := map[string]checkFunc{}
	if h.server.DB != nil {
		all["database"] = func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		}
	}
	if h.server.Redis != nil {
		all["redis"] = func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
	}

	cfg := h.server.Config.Observability
	if cfg == nil || len(cfg.HealthChecks.Checks) == 0 {
		return all
	}
	for name := range all {
		if !slices.Contains(cfg.HealthChecks.Checks, name) {
			delete(all, name)
		}
	}
	return all
}

func (h *HealthHandler) timeout() time.Duration {
	if cfg := h.server.Config.Observability; cfg != nil && cfg.HealthChecks.Timeout > 0 {
		return cfg.HealthChecks.Timeout
	}
	return 5 * time.Second
}

func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		attrs["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}

// CheckHealth returns 200 when every configured dependency answers and 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]any{}
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	if cfg := h.server.Config.Observability; cfg == nil || cfg.HealthChecks.Enabled {
		for name, check := range h.checks() {
			result, ok := h.runCheck(c.Request().Context(), logger, name, check)
			checks[name] = result
			isHealthy = isHealthy && ok
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(parent context.Context, logger zerolog.Logger, name string, check checkFunc) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(parent, h.timeout())
	defer cancel()

	checkStart := time.Now()
	err := check(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("dependency health check failed")

		h.recordFailure(map[string]any{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]any{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	return map[string]any{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}
