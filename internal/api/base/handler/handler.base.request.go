package basehdl

import (
	"errors"
	"strconv"
	"strings"

	"explorerhub/internal/common"
	"explorerhub/internal/global"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// Paging defaults for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseRequestBody binds the JSON body into input and validates its `validate` tags.
func ParseRequestBody(c fiber.Ctx, input any) error {
	if err := c.Bind().Body(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return ValidateInput(input)
}

// ValidateInput runs the shared validator and reports failing fields as details.
func ValidateInput(input any) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			details[jsonFieldName(fe.Namespace())] = rule
		}
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, details)
	}
	return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
}

// jsonFieldName drops the struct name from a validator namespace ("SignupInput.Email" -> "Email").
func jsonFieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.ErrCodeValidationFormat, "Invalid "+name, common.StatusBadRequest, c.Params(name))
	}
	return id, nil
}

// ParsePaging reads skip (>= 0) and limit (1..MaxLimit, default DefaultLimit).
func ParsePaging(c fiber.Ctx) (skip, limit int64, err error) {
	skip, err = queryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		return 0, 0, common.NewError(common.ErrCodeValidationInput, "skip must be a non-negative integer", common.StatusBadRequest, c.Query("skip"))
	}
	limit, err = queryInt(c, "limit", DefaultLimit)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, common.NewError(common.ErrCodeValidationInput, "limit must be between 1 and 100", common.StatusBadRequest, c.Query("limit"))
	}
	return skip, limit, nil
}

func queryInt(c fiber.Ctx, key string, def int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// CurrentUserID returns the authenticated user id set by the auth middleware.
func CurrentUserID(c fiber.Ctx) (int64, error) {
	id, ok := c.Locals(global.LocalsUserID).(int64)
	if !ok || id <= 0 {
		return 0, common.ErrTokenMissing
	}
	return id, nil
}

// CurrentUserRole returns the role of the authenticated user.
func CurrentUserRole(c fiber.Ctx) string {
	role, _ := c.Locals(global.LocalsUserRole).(string)
	return role
}
