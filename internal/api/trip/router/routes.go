// Package router registers the trip routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	triphdl "explorerhub/internal/api/trip/handler"
	apirouter "explorerhub/internal/api/router"
)

// Register mounts /trips on v1. Every trip route is protected.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := triphdl.NewTripHandler(r.Deps.Sequences)
	if err != nil {
		return fmt.Errorf("failed to create trip handler: %w", err)
	}

	trips := v1.Group("/trips")
	for _, mw := range r.AuthOnly() {
		trips.Use(mw)
	}
	trips.Post("", h.HandleCreate)
	trips.Get("", h.HandleList)
	trips.Get("/:id<int>", h.HandleGet)
	trips.Put("/:id<int>", h.HandleUpdate)
	trips.Delete("/:id<int>", h.HandleDelete)
	trips.Post("/:id<int>/activities", h.HandleAddActivity)
	trips.Delete("/:id<int>/activities/:businessId<int>", h.HandleRemoveActivity)
	return nil
}
