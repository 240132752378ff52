package authhdl

import (
	"fmt"

	authdto "explorerhub/internal/api/auth/dto"
	authsvc "explorerhub/internal/api/auth/service"
	authtoken "explorerhub/internal/api/auth/token"
	basehdl "explorerhub/internal/api/base/handler"
	basesvc "explorerhub/internal/api/base/service"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// UserHandler serves signup, login and the current account.
type UserHandler struct {
	userService *authsvc.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(ids basesvc.IDAllocator, tokens *authtoken.Manager) (*UserHandler, error) {
	userService, err := authsvc.NewUserService(ids, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &UserHandler{userService: userService}, nil
}

// HandleSignup creates an account and returns a token for it.
func (h *UserHandler) HandleSignup(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.SignupInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.userService.Signup(logger.ContextFromRequest(c), &input)
		if err == nil {
			logger.LogAuth("signup", c, map[string]any{"user_id": result.User.ID, "role": result.User.Role})
		}
		return basehdl.HandleCreated(c, result, err)
	})
}

// HandleLogin exchanges email and password for a token.
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input authdto.LoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.userService.Login(logger.ContextFromRequest(c), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]any{"email": authsvc.NormalizeEmail(input.Email)})
		} else {
			logger.LogAuth("login", c, map[string]any{"user_id": result.User.ID})
		}
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleMe returns the signed-in user.
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		user, err := h.userService.Me(logger.ContextFromRequest(c), userID)
		return basehdl.HandleResponse(c, user, err)
	})
}
