package middleware

import (
	"errors"
	"strings"

	authtoken "explorerhub/internal/api/auth/token"
	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// TokenParser verifies a bearer token. *authtoken.Manager implements it.
type TokenParser interface {
	Parse(token string) (*authtoken.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores the user id, role and email in
// Locals. A non-empty requireRole also rejects users with another role.
func AuthMiddleware(tokens TokenParser, requireRole string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Debug("Missing Authorization header")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				logger.WithRequest(c).WithError(err).Warn("Rejected access token")
			}
			return HandleErrorResponse(c, err)
		}
		userID, err := claims.UserID()
		if err != nil {
			return HandleErrorResponse(c, err)
		}

		if requireRole != "" && claims.Role != requireRole {
			return HandleErrorResponse(c, common.ErrForbidden)
		}

		c.Locals(global.LocalsUserID, userID)
		c.Locals(global.LocalsUserRole, claims.Role)
		c.Locals(global.LocalsUserEmail, claims.Email)
		return c.Next()
	}
}
