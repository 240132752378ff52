package triphdl

import (
	"fmt"

	basehdl "explorerhub/internal/api/base/handler"
	basesvc "explorerhub/internal/api/base/service"
	tripdto "explorerhub/internal/api/trip/dto"
	tripsvc "explorerhub/internal/api/trip/service"
	"explorerhub/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// TripHandler serves the /trips routes. Every route needs a signed-in user.
type TripHandler struct {
	tripService *tripsvc.TripService
}

// NewTripHandler creates the TripHandler.
func NewTripHandler(ids basesvc.IDAllocator) (*TripHandler, error) {
	tripService, err := tripsvc.NewTripService(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip service: %w", err)
	}
	return &TripHandler{tripService: tripService}, nil
}

// HandleCreate plans a new trip.
func (h *TripHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input tripdto.TripInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trip, err := h.tripService.Create(logger.ContextFromRequest(c), userID, &input)
		if err == nil {
			logger.LogCRUD("create", "trip", trip.ID, c, nil)
		}
		return basehdl.HandleCreated(c, trip, err)
	})
}

// HandleList returns the caller's trips.
func (h *TripHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, err := basehdl.CurrentUserID(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trips, err := h.tripService.ListMine(logger.ContextFromRequest(c), userID)
		return basehdl.HandleResponse(c, trips, err)
	})
}

// HandleGet returns one of the caller's trips.
func (h *TripHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, id, err := userAndTrip(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trip, err := h.tripService.Get(logger.ContextFromRequest(c), id, userID)
		return basehdl.HandleResponse(c, trip, err)
	})
}

// HandleUpdate replaces one of the caller's trips.
func (h *TripHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, id, err := userAndTrip(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input tripdto.TripInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trip, err := h.tripService.Update(logger.ContextFromRequest(c), id, userID, &input)
		if err == nil {
			logger.LogCRUD("update", "trip", id, c, nil)
		}
		return basehdl.HandleResponse(c, trip, err)
	})
}

// HandleDelete removes one of the caller's trips.
func (h *TripHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, id, err := userAndTrip(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		if err := h.tripService.Delete(logger.ContextFromRequest(c), id, userID); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		logger.LogCRUD("delete", "trip", id, c, nil)
		return basehdl.HandleResponse(c, fiber.Map{"id": id}, nil)
	})
}

// HandleAddActivity schedules a business into the trip.
func (h *TripHandler) HandleAddActivity(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, id, err := userAndTrip(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input tripdto.ActivityInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trip, err := h.tripService.AddActivity(logger.ContextFromRequest(c), id, userID, &input)
		return basehdl.HandleResponse(c, trip, err)
	})
}

// HandleRemoveActivity drops a business from the trip.
func (h *TripHandler) HandleRemoveActivity(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		userID, id, err := userAndTrip(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		businessID, err := basehdl.ParseIDParam(c, "businessId")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		trip, err := h.tripService.RemoveActivity(logger.ContextFromRequest(c), id, userID, businessID)
		return basehdl.HandleResponse(c, trip, err)
	})
}

func userAndTrip(c fiber.Ctx) (userID, tripID int64, err error) {
	if userID, err = basehdl.CurrentUserID(c); err != nil {
		return 0, 0, err
	}
	if tripID, err = basehdl.ParseIDParam(c, "id"); err != nil {
		return 0, 0, err
	}
	return userID, tripID, nil
}
