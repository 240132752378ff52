package reviewhdl

import (
	"errors"
	"fmt"

	basehdl "explorerhub/internal/api/base/handler"
	basesvc "explorerhub/internal/api/base/service"
	reviewdto "explorerhub/internal/api/review/dto"
	reviewsvc "explorerhub/internal/api/review/service"
	"explorerhub/internal/common"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ReviewHandler serves the /reviews routes.
type ReviewHandler struct {
	reviewService *reviewsvc.ReviewService
}

// NewReviewHandler creates the ReviewHandler.
func NewReviewHandler(ids basesvc.IDAllocator, ratings reviewsvc.Recomputer) (*ReviewHandler, error) {
	reviewService, err := reviewsvc.NewReviewService(ids, ratings)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}
	return &ReviewHandler{reviewService: reviewService}, nil
}

// HandleCreate posts a review. The response is sent after the business summary is updated.
func (h *ReviewHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input reviewdto.CreateReviewInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		review, err := h.reviewService.Create(logger.ContextFromRequest(c), userID, &input)
		if review != nil {
			logger.LogCRUD("create", "review", review.ID, c, map[string]any{
				"business_id":      review.BusinessID,
				"rating_refreshed": err == nil,
			})
		}
		return basehdl.HandleCreated(c, review, err)
	})
}

// HandleListByBusiness returns a page of a business's reviews.
func (h *ReviewHandler) HandleListByBusiness(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		businessID, err := basehdl.ParseIDParam(c, "businessId")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		skip, limit, err := basehdl.ParsePaging(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		reviews, err := h.reviewService.ListByBusiness(logger.ContextFromRequest(c), businessID, skip, limit)
		return basehdl.HandleResponse(c, reviews, err)
	})
}

// HandleMine returns the caller's reviews.
func (h *ReviewHandler) HandleMine(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		reviews, err := h.reviewService.ListMine(logger.ContextFromRequest(c), userID)
		return basehdl.HandleResponse(c, reviews, err)
	})
}

// HandleUpdate edits the caller's review.
func (h *ReviewHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input reviewdto.ReviewInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		review, err := h.reviewService.Update(logger.ContextFromRequest(c), id, userID, &input)
		if review != nil {
			logger.LogCRUD("update", "review", id, c, map[string]any{"rating_refreshed": err == nil})
		}
		return basehdl.HandleResponse(c, review, err)
	})
}

// HandleDelete removes the caller's review.
func (h *ReviewHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		err = h.reviewService.Delete(logger.ContextFromRequest(c), id, userID)
		if err == nil || errors.Is(err, common.ErrRatingNotRefreshed) {
			logger.LogCRUD("delete", "review", id, c, map[string]any{"rating_refreshed": err == nil})
		}
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		return basehdl.HandleResponse(c, fiber.Map{"id": id}, nil)
	})
}

// HandleHelpful counts one "helpful" vote.
func (h *ReviewHandler) HandleHelpful(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := basehdl.ParseIDParam(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		err = h.reviewService.MarkHelpful(logger.ContextFromRequest(c), id)
		return basehdl.HandleResponse(c, nil, err)
	})
}
