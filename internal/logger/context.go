package logger

import (
	"context"

	"explorerhub/internal/global"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// ContextKey is the type of the context keys read by WithContext.
type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
	UserIDKey    ContextKey = "userID"
	ServiceKey   ContextKey = "service"
)

// WithContext returns an app logger entry carrying the request, user and service
// values found in ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if v := ctx.Value(RequestIDKey); v != nil {
		entry = entry.WithField("request_id", v)
	}
	if v := ctx.Value(UserIDKey); v != nil {
		entry = entry.WithField("user_id", v)
	}
	if v := ctx.Value(ServiceKey); v != nil {
		entry = entry.WithField("service", v)
	}
	return entry
}

// ContextFromRequest copies the request id and the authenticated user id into a
// context derived from the request context, for use by services.
func ContextFromRequest(c fiber.Ctx) context.Context {
	ctx := c.Context()
	if rid := requestID(c); rid != "" {
		ctx = context.WithValue(ctx, RequestIDKey, rid)
	}
	if uid, ok := c.Locals(global.LocalsUserID).(int64); ok {
		ctx = context.WithValue(ctx, UserIDKey, uid)
	}
	return ctx
}

// WithRequest returns an app logger entry with the request id, method, path and ip.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
	if rid := requestID(c); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	return entry
}

// WithRequestInfo is WithRequest plus the module name.
func WithRequestInfo(c fiber.Ctx, module string) *logrus.Entry {
	entry := WithRequest(c)
	if module != "" {
		entry = entry.WithField("module", module)
	}
	return entry
}

func requestID(c fiber.Ctx) string {
	if rid := requestid.FromContext(c); rid != "" {
		return rid
	}
	if rid := c.Get(fiber.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// WithFields returns an app logger entry with fields.
func WithFields(fields map[string]any) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError returns an app logger entry with err attached.
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule tags the entry with a module name (auth, business, review, trip, sequence, rating).
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}
