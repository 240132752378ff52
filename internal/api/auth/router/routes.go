// Package router registers the auth and system routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "explorerhub/internal/api/auth/handler"
	basehdl "explorerhub/internal/api/base/handler"
	apirouter "explorerhub/internal/api/router"
)

// Register mounts /auth and /system on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	return registerAuthRoutes(v1, r)
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler(r.Deps.Sequences, r.Deps.Tokens)
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	router.Post("/auth/signup", userHandler.HandleSignup)
	router.Post("/auth/login", userHandler.HandleLogin)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", fiber.MethodGet, "/me", r.AuthOnly(), userHandler.HandleMe)
	return nil
}
