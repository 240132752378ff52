package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"explorerhub/internal/common"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data any) error {
	c.Set(fiber.HeaderContentType, "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandlerWrapper runs fn and turns a panic into a 500 envelope.
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().WithField("panic", r).WithField("stack", string(debug.Stack())).
				Error("Handler panic recovered")
			err = HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Unexpected server error: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// HandleResponse writes the success envelope {code, message, data, status} with 200, or
// the error envelope {code, message, details, status} with the error's status code.
func HandleResponse(c fiber.Ctx, data any, err error) error {
	return HandleResponseWithStatus(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleCreated is HandleResponse with 201 Created.
func HandleCreated(c fiber.Ctx, data any, err error) error {
	return HandleResponseWithStatus(c, common.StatusCreated, common.MsgCreated, data, err)
}

// HandleResponseWithStatus is HandleResponse with a custom success status and message.
func HandleResponseWithStatus(c fiber.Ctx, statusCode int, message string, data any, err error) error {
	if err != nil {
		return HandleError(c, err)
	}
	return JSONResponse(c, statusCode, fiber.Map{
		"code":    statusCode,
		"message": message,
		"data":    data,
		"status":  "success",
	})
}

// HandleError writes the error envelope. Errors that are not *common.Error are reported
// as internal errors without leaking their text.
func HandleError(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request failed")
		}
		return JSONResponse(c, appErr.StatusCode, fiber.Map{
			"code":    appErr.Code.Code,
			"message": appErr.Message,
			"details": publicDetails(appErr.Details),
			"status":  "error",
		})
	}

	logger.WithRequest(c).WithError(err).Error("Unhandled error")
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}

// publicDetails hides wrapped driver errors; structured details pass through.
func publicDetails(details any) any {
	if _, isErr := details.(error); isErr {
		return nil
	}
	return details
}
