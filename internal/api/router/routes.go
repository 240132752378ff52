package router

import (
	"github.com/gofiber/fiber/v3"

	authtoken "explorerhub/internal/api/auth/token"
	"explorerhub/internal/api/middleware"
	"explorerhub/internal/rating"
	"explorerhub/internal/sequence"
)

// Middleware has to be attached through a group's Use. Passing it as an extra handler to
// router.Get/Post skipped it on Fiber v3 (protected routes answered 401 with a valid token),
// so every protected route goes through RegisterRouteWithMiddleware.
//
// A group's Use matches every later route under the same prefix. Public routes that share a
// prefix with protected ones must be registered first.

// RoutePrefix holds the API prefixes.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Deps are the shared components the domain routers build their services from.
type Deps struct {
	Sequences *sequence.Allocator
	Ratings   *rating.Aggregator
	Tokens    *authtoken.Manager
}

// Router carries the app and the shared dependencies to the domain routers.
type Router struct {
	app  *fiber.App
	Deps Deps
}

// NewRouter returns a Router for app.
func NewRouter(app *fiber.App, deps Deps) *Router {
	return &Router{
		app:  app,
		Deps: deps,
	}
}

// AuthOnly returns the middleware chain for routes that only need a signed-in user.
func (r *Router) AuthOnly() []fiber.Handler {
	return []fiber.Handler{middleware.AuthMiddleware(r.Deps.Tokens, "")}
}

// RegisterRouteWithMiddleware registers method prefix+path on router behind middlewares.
//
//	RegisterRouteWithMiddleware(v1, "/auth", "GET", "/me", r.AuthOnly(), h.HandleMe)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case fiber.MethodGet:
		routeGroup.Get(path, handler)
	case fiber.MethodPost:
		routeGroup.Post(path, handler)
	case fiber.MethodPut:
		routeGroup.Put(path, handler)
	case fiber.MethodDelete:
		routeGroup.Delete(path, handler)
	case fiber.MethodPatch:
		routeGroup.Patch(path, handler)
	}
}

// RegisterFunc registers the routes of one domain under v1.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts /api/v1 and runs every domain's RegisterFunc on it. The domains are
// passed in by the caller so this package does not import them.
func SetupRoutes(app *fiber.App, deps Deps, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, deps)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
