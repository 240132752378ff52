package businesshdl

import (
	"fmt"
	"strconv"

	basehdl "explorerhub/internal/api/base/handler"
	basesvc "explorerhub/internal/api/base/service"
	businessdto "explorerhub/internal/api/business/dto"
	businesssvc "explorerhub/internal/api/business/service"
	"explorerhub/internal/common"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// BusinessHandler serves the /businesses routes.
type BusinessHandler struct {
	businessService *businesssvc.BusinessService
}

// NewBusinessHandler creates the BusinessHandler.
func NewBusinessHandler(ids basesvc.IDAllocator) (*BusinessHandler, error) {
	businessService, err := businesssvc.NewBusinessService(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create business service: %w", err)
	}
	return &BusinessHandler{businessService: businessService}, nil
}

// HandleCreate lists a new business owned by the caller.
func (h *BusinessHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input businessdto.BusinessInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		business, err := h.businessService.Create(logger.ContextFromRequest(c), userID, basehdl.CurrentUserRole(c), &input)
		if err == nil {
			logger.LogCRUD("create", "business", business.ID, c, nil)
		}
		return basehdl.HandleCreated(c, business, err)
	})
}

// HandleList returns active businesses filtered by the query string.
func (h *BusinessHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		q, err := ParseListQuery(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		businesses, err := h.businessService.List(logger.ContextFromRequest(c), q)
		return basehdl.HandleResponse(c, businesses, err)
	})
}

// HandleGet returns one business.
func (h *BusinessHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		business, err := h.businessService.Get(logger.ContextFromRequest(c), id)
		return basehdl.HandleResponse(c, business, err)
	})
}

// HandleUpdate replaces a business owned by the caller.
func (h *BusinessHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input businessdto.BusinessInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		business, err := h.businessService.Update(logger.ContextFromRequest(c), id, userID, &input)
		if err == nil {
			logger.LogCRUD("update", "business", id, c, nil)
		}
		return basehdl.HandleResponse(c, business, err)
	})
}

// HandleDelete deactivates a business owned by the caller.
func (h *BusinessHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		if err := h.businessService.Deactivate(logger.ContextFromRequest(c), id, userID); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		logger.LogCRUD("delete", "business", id, c, map[string]any{"soft": true})
		return basehdl.HandleResponse(c, fiber.Map{"id": id, "is_active": false}, nil)
	})
}

// HandleMine returns the caller's businesses.
func (h *BusinessHandler) HandleMine(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		businesses, err := h.businessService.ListByOwner(logger.ContextFromRequest(c), userID)
		return basehdl.HandleResponse(c, businesses, err)
	})
}

// HandleView counts one view.
func (h *BusinessHandler) HandleView(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		err = h.businessService.IncrementViews(logger.ContextFromRequest(c), id)
		return basehdl.HandleResponse(c, nil, err)
	})
}

// HandleAnalytics returns the caller's owner analytics.
func (h *BusinessHandler) HandleAnalytics(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		analytics, err := h.businessService.Analytics(logger.ContextFromRequest(c), userID)
		return basehdl.HandleResponse(c, analytics, err)
	})
}

// ParseListQuery reads the filters of GET /businesses.
func ParseListQuery(c fiber.Ctx) (*businessdto.ListQuery, error) {
	skip, limit, err := basehdl.ParsePaging(c)
	if err != nil {
		return nil, err
	}
	q := &businessdto.ListQuery{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Search:   c.Query("search"),
		Skip:     skip,
		Limit:    limit,
	}
	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			return nil, common.NewError(common.ErrCodeValidationInput, "min_rating must be between 0 and 5", common.StatusBadRequest, raw)
		}
		q.MinRating = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 4 {
			return nil, common.NewError(common.ErrCodeValidationInput, "max_price must be between 1 and 4", common.StatusBadRequest, raw)
		}
		q.MaxPrice = &v
	}
	return q, nil
}
