// Package router registers the review routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	reviewhdl "explorerhub/internal/api/review/handler"
	apirouter "explorerhub/internal/api/router"
)

// Register mounts /reviews on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := reviewhdl.NewReviewHandler(r.Deps.Sequences, r.Deps.Ratings)
	if err != nil {
		return fmt.Errorf("failed to create review handler: %w", err)
	}

	v1.Get("/reviews/business/:businessId<int>", h.HandleListByBusiness)

	auth := r.AuthOnly()
	apirouter.RegisterRouteWithMiddleware(v1, "/reviews", fiber.MethodPost, "", auth, h.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/reviews", fiber.MethodGet, "/mine", auth, h.HandleMine)
	apirouter.RegisterRouteWithMiddleware(v1, "/reviews", fiber.MethodPut, "/:id<int>", auth, h.HandleUpdate)
	apirouter.RegisterRouteWithMiddleware(v1, "/reviews", fiber.MethodDelete, "/:id<int>", auth, h.HandleDelete)
	apirouter.RegisterRouteWithMiddleware(v1, "/reviews", fiber.MethodPost, "/:id<int>/helpful", auth, h.HandleHelpful)
	return nil
}
