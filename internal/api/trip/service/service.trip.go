// Package tripsvc - trip plans and their activities.
package tripsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	basesvc "explorerhub/internal/api/base/service"
	businessmodels "explorerhub/internal/api/business/models"
	tripdto "explorerhub/internal/api/trip/dto"
	models "explorerhub/internal/api/trip/models"
	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/sequence"

	"go.mongodb.org/mongo-driver/bson"
)

const mineListLimit = 100

// TripService handles the trips collection. Every operation on an existing trip is owner only.
type TripService struct {
	*basesvc.BaseServiceMongoImpl[models.Trip]
	businesses *basesvc.BaseServiceMongoImpl[businessmodels.Business]
	ids        basesvc.IDAllocator
}

// NewTripService creates the TripService.
func NewTripService(ids basesvc.IDAllocator) (*TripService, error) {
	trips, err := basesvc.Collection(global.MongoDB_ColNames.Trips)
	if err != nil {
		return nil, err
	}
	businesses, err := basesvc.Collection(global.MongoDB_ColNames.Businesses)
	if err != nil {
		return nil, err
	}
	return &TripService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Trip](trips),
		businesses:           basesvc.NewBaseServiceMongo[businessmodels.Business](businesses),
		ids:                  ids,
	}, nil
}

// Create stores a new trip with no activities.
func (s *TripService) Create(ctx context.Context, userID int64, input *tripdto.TripInput) (*models.Trip, error) {
	if err := CheckDates(input); err != nil {
		return nil, err
	}
	id, err := s.ids.NextValue(ctx, sequence.Trips)
	if err != nil {
		return nil, err
	}
	trip := NewTrip(id, userID, input, time.Now().UTC())
	if _, err := s.InsertOne(ctx, trip); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{"trip_id": id, "user_id": userID}).Info("Trip created")
	return &trip, nil
}

// ListMine returns the caller's trips, latest start first.
func (s *TripService) ListMine(ctx context.Context, userID int64) ([]models.Trip, error) {
	sort := bson.D{{Key: "start_date", Value: -1}, {Key: "id", Value: -1}}
	return s.FindWithSkip(ctx, bson.M{"user_id": userID}, 0, mineListLimit, sort)
}

// Get returns one of the caller's trips.
func (s *TripService) Get(ctx context.Context, id, userID int64) (*models.Trip, error) {
	return s.owned(ctx, id, userID)
}

// Update replaces the trip fields. Activities are kept.
func (s *TripService) Update(ctx context.Context, id, userID int64, input *tripdto.TripInput) (*models.Trip, error) {
	if err := CheckDates(input); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, &basesvc.UpdateData{Set: EditableFields(input)})
}

// Delete removes one of the caller's trips.
func (s *TripService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTripNotFound
		}
		return err
	}
	return nil
}

// AddActivity appends a business to the trip. The business must exist.
func (s *TripService) AddActivity(ctx context.Context, id, userID int64, input *tripdto.ActivityInput) (*models.Trip, error) {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	exists, err := s.businesses.DocumentExists(ctx, bson.M{"id": input.BusinessID})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrBusinessNotFound
	}
	return s.apply(ctx, id, &basesvc.UpdateData{Push: map[string]any{"activities": NewActivity(input)}})
}

// RemoveActivity drops every activity of businessID from the trip.
func (s *TripService) RemoveActivity(ctx context.Context, id, userID, businessID int64) (*models.Trip, error) {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.apply(ctx, id, &basesvc.UpdateData{Pull: map[string]any{"activities": bson.M{"business_id": businessID}}})
}

func (s *TripService) apply(ctx context.Context, id int64, update *basesvc.UpdateData) (*models.Trip, error) {
	trip, err := s.FindOneAndUpdate(ctx, bson.M{"id": id}, update)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (s *TripService) owned(ctx context.Context, id, userID int64) (*models.Trip, error) {
	trip, err := s.FindOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTripNotFound
		}
		return nil, err
	}
	if trip.UserID != userID {
		return nil, common.ErrForbidden
	}
	return &trip, nil
}

// CheckDates rejects a trip that ends before it starts. Both dates are already YYYY-MM-DD.
func CheckDates(input *tripdto.TripInput) error {
	if input.EndDate < input.StartDate {
		return common.ErrTripDates
	}
	return nil
}

// NewTrip builds the stored document of a new trip.
func NewTrip(id, userID int64, input *tripdto.TripInput, now time.Time) models.Trip {
	return models.Trip{
		ID:          id,
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Destination: strings.TrimSpace(input.Destination),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
		Activities:  []models.TripActivity{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EditableFields is the $set of a trip update.
func EditableFields(input *tripdto.TripInput) map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"destination": strings.TrimSpace(input.Destination),
		"start_date":  input.StartDate,
		"end_date":    input.EndDate,
		"description": input.Description,
	}
}

// NewActivity converts the request body into the stored activity.
func NewActivity(input *tripdto.ActivityInput) models.TripActivity {
	return models.TripActivity{
		BusinessID:    input.BusinessID,
		BusinessName:  strings.TrimSpace(input.BusinessName),
		ScheduledDate: input.ScheduledDate,
		Notes:         input.Notes,
	}
}
