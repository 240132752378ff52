// Package router registers the business routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	businesshdl "explorerhub/internal/api/business/handler"
	apirouter "explorerhub/internal/api/router"
)

// Register mounts /businesses on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := businesshdl.NewBusinessHandler(r.Deps.Sequences)
	if err != nil {
		return fmt.Errorf("failed to create business handler: %w", err)
	}

	// Public routes first: the protected group below matches every later /businesses path.
	v1.Get("/businesses", h.HandleList)
	v1.Get("/businesses/:id<int>", h.HandleGet)
	v1.Post("/businesses/:id<int>/view", h.HandleView)

	auth := r.AuthOnly()
	apirouter.RegisterRouteWithMiddleware(v1, "/businesses", fiber.MethodPost, "", auth, h.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/businesses", fiber.MethodGet, "/owner/mine", auth, h.HandleMine)
	apirouter.RegisterRouteWithMiddleware(v1, "/businesses", fiber.MethodGet, "/owner/analytics", auth, h.HandleAnalytics)
	apirouter.RegisterRouteWithMiddleware(v1, "/businesses", fiber.MethodPut, "/:id<int>", auth, h.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/businesses", fiber.MethodDelete, "/:id<int>", auth, h.HandleDelete)
	return nil
}
