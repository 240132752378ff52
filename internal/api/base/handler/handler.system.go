package basehdl

import (
	"context"
	"time"

	"explorerhub/internal/common"
	"explorerhub/internal/global"

	"github.com/gofiber/fiber/v3"
)

// SystemHandler serves the health endpoints.
type SystemHandler struct {
	ping func(ctx context.Context) error
}

// NewSystemHandler checks the global MongoDB session.
func NewSystemHandler() (*SystemHandler, error) {
	return &SystemHandler{ping: func(ctx context.Context) error {
		if global.MongoDB_Session == nil {
			return common.ErrConnection
		}
		return global.MongoDB_Session.Ping(ctx, nil)
	}}, nil
}

// NewSystemHandlerWithPing uses ping as the database check.
func NewSystemHandlerWithPing(ping func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{ping: ping}
}

// HandleHealth reports API and database status: 200 when healthy, 503 when the database
// ping fails.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok", "database": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if err := h.ping(ctx); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": common.MsgServiceUnavailable,
			"data":    healthData,
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
