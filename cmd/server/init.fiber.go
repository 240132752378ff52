package main

import (
	"errors"
	"time"

	"explorerhub/config"
	authrouter "explorerhub/internal/api/auth/router"
	basehdl "explorerhub/internal/api/base/handler"
	businessrouter "explorerhub/internal/api/business/router"
	"explorerhub/internal/api/middleware"
	reviewrouter "explorerhub/internal/api/review/router"
	"explorerhub/internal/api/router"
	triprouter "explorerhub/internal/api/trip/router"
	"explorerhub/internal/common"
	"explorerhub/internal/logger"
	"explorerhub/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// unlimitedPaths skip the rate limiter and the recover middleware.
var unlimitedPaths = map[string]bool{
	"/health":               true,
	"/metrics":              true,
	"/api/v1/system/health": true,
}

// InitFiberApp creates the Fiber app with the middleware stack, the probe endpoints and
// every domain's routes.
func InitFiberApp(cfg *config.Configuration, m *metrics.Metrics, deps router.Deps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:       "ExplorerHub API",
		ServerHeader:  "ExplorerHub API",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		BodyLimit:       4 * 1024 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOriginList(),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	app.Use(middleware.SecurityHeaders())

	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Too many requests, please try again later",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return unlimitedPaths[c.Path()] || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			logger.WithRequest(c).WithFields(map[string]any{
				"panic":  e,
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Panic recovered")
		},
		Next: func(c fiber.Ctx) bool {
			return unlimitedPaths[c.Path()]
		},
	}))

	app.Use(m.FiberMiddleware())

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	err := router.SetupRoutes(app, deps,
		authrouter.Register,
		businessrouter.Register,
		reviewrouter.Register,
		triprouter.Register,
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// errorHandler answers the errors no handler turned into a response (unknown routes,
// body limit, panics) in the standard error envelope.
func errorHandler(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return basehdl.HandleError(c, appErr)
	}

	code := fiber.StatusInternalServerError
	message := common.MsgInternalError
	errorCode := common.ErrCodeInternalServer.Code

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		switch code {
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			errorCode = common.ErrCodeValidationInput.Code
		case fiber.StatusUnauthorized:
			errorCode = common.ErrCodeAuthToken.Code
		case fiber.StatusForbidden:
			errorCode = common.ErrCodeAuthRole.Code
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed, fiber.StatusConflict:
			errorCode = common.ErrCodeDatabaseQuery.Code
		}
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request error")
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    errorCode,
		"message": message,
		"status":  "error",
	})
}
