// Package businesssvc - business listings, owner management and analytics.
package businesssvc

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	authmodels "explorerhub/internal/api/auth/models"
	basesvc "explorerhub/internal/api/base/service"
	businessdto "explorerhub/internal/api/business/dto"
	models "explorerhub/internal/api/business/models"
	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/sequence"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ownerListLimit caps GET /businesses/owner/mine.
const ownerListLimit = 100

// BusinessService handles the businesses collection.
type BusinessService struct {
	*basesvc.BaseServiceMongoImpl[models.Business]
	ids basesvc.IDAllocator
}

// NewBusinessService creates the BusinessService.
func NewBusinessService(ids basesvc.IDAllocator) (*BusinessService, error) {
	col, err := basesvc.Collection(global.MongoDB_ColNames.Businesses)
	if err != nil {
		return nil, err
	}
	return &BusinessService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Business](col),
		ids:                  ids,
	}, nil
}

// Create lists a new business for ownerID. Only business accounts may do this.
func (s *BusinessService) Create(ctx context.Context, ownerID int64, role string, input *businessdto.BusinessInput) (*models.Business, error) {
	if role != authmodels.RoleBusiness {
		return nil, common.ErrBusinessRoleOnly
	}
	id, err := s.ids.NextValue(ctx, sequence.Businesses)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	business := NewBusiness(id, ownerID, input, now)
	if _, err := s.InsertOne(ctx, business); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{"business_id": id, "owner_id": ownerID}).Info("Business created")
	return &business, nil
}

// List returns active businesses matching q, best rated first.
func (s *BusinessService) List(ctx context.Context, q *businessdto.ListQuery) ([]models.Business, error) {
	sort := bson.D{{Key: "rating", Value: -1}, {Key: "id", Value: 1}}
	return s.FindWithSkip(ctx, BuildListFilter(q), q.Skip, q.Limit, sort)
}

// Get returns a business by id, active or not.
func (s *BusinessService) Get(ctx context.Context, id int64) (*models.Business, error) {
	business, err := s.FindOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrBusinessNotFound
		}
		return nil, err
	}
	return &business, nil
}

// Exists reports whether a business with id exists.
func (s *BusinessService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.DocumentExists(ctx, bson.M{"id": id})
}

// Update replaces the editable fields. Only the owner may update.
func (s *BusinessService) Update(ctx context.Context, id, userID int64, input *businessdto.BusinessInput) (*models.Business, error) {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return nil, err
	}
	updated, err := s.FindOneAndUpdate(ctx, bson.M{"id": id}, &basesvc.UpdateData{Set: EditableFields(input)})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Deactivate hides the business from listings. Only the owner may do this.
func (s *BusinessService) Deactivate(ctx context.Context, id, userID int64) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	_, err := s.FindOneAndUpdate(ctx, bson.M{"id": id}, &basesvc.UpdateData{Set: map[string]any{"is_active": false}})
	return err
}

// ListByOwner returns every business of ownerID, including inactive ones.
func (s *BusinessService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Business, error) {
	return s.FindWithSkip(ctx, bson.M{"owner_id": ownerID}, 0, ownerListLimit, bson.D{{Key: "id", Value: 1}})
}

// IncrementViews adds one to the view counter.
func (s *BusinessService) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.Collection().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrBusinessNotFound
	}
	return nil
}

// ownerTotals is the $group result of Analytics.
type ownerTotals struct {
	Count        int64   `bson:"count"`
	RatingSum    float64 `bson:"rating_sum"`
	ReviewsTotal int64   `bson:"reviews_total"`
	ViewsTotal   int64   `bson:"views_total"`
}

// Analytics sums the businesses of ownerID.
func (s *BusinessService) Analytics(ctx context.Context, ownerID int64) (*businessdto.OwnerAnalytics, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"owner_id": ownerID}},
		{"$group": bson.M{
			"_id":           nil,
			"count":         bson.M{"$sum": 1},
			"rating_sum":    bson.M{"$sum": "$rating"},
			"reviews_total": bson.M{"$sum": "$review_count"},
			"views_total":   bson.M{"$sum": "$views"},
		}},
	}
	cursor, err := s.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var totals ownerTotals
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return nil, common.ConvertMongoError(err)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	analytics := AnalyticsFromTotals(totals.Count, totals.RatingSum, totals.ReviewsTotal, totals.ViewsTotal)
	return &analytics, nil
}

// owned loads the business and checks that userID owns it.
func (s *BusinessService) owned(ctx context.Context, id, userID int64) (*models.Business, error) {
	business, err := s.FindOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrBusinessNotFound
		}
		return nil, err
	}
	if business.OwnerID != userID {
		return nil, common.ErrForbidden
	}
	return &business, nil
}

// NewBusiness builds the stored document of a new listing with an empty summary.
func NewBusiness(id, ownerID int64, input *businessdto.BusinessInput, now time.Time) models.Business {
	return models.Business{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Location:    locationOf(input.Location),
		Phone:       input.Phone,
		Website:     input.Website,
		PriceLevel:  input.PriceLevel,
		Images:      nonNil(input.Images),
		Tags:        nonNil(input.Tags),
		OwnerID:     ownerID,
		Rating:      0,
		ReviewCount: 0,
		Views:       0,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EditableFields is the $set of a full update. id, owner, summary and counters are left out.
func EditableFields(input *businessdto.BusinessInput) map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"description": input.Description,
		"category":    strings.TrimSpace(input.Category),
		"location":    locationOf(input.Location),
		"phone":       input.Phone,
		"website":     input.Website,
		"price_level": input.PriceLevel,
		"images":      nonNil(input.Images),
		"tags":        nonNil(input.Tags),
	}
}

// BuildListFilter turns the query into a filter over active businesses. Text filters are
// case-insensitive substring matches with the user input quoted.
func BuildListFilter(q *businessdto.ListQuery) bson.M {
	filter := bson.M{"is_active": true}
	if q == nil {
		return filter
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.City != "" {
		filter["location.city"] = containsIgnoreCase(q.City)
	}
	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}
	if q.MaxPrice != nil {
		filter["price_level"] = bson.M{"$lte": *q.MaxPrice}
	}
	if q.Search != "" {
		pattern := containsIgnoreCase(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	return filter
}

// AnalyticsFromTotals averages the ratings, rounded to two decimals.
func AnalyticsFromTotals(count int64, ratingSum float64, reviews, views int64) businessdto.OwnerAnalytics {
	out := businessdto.OwnerAnalytics{
		TotalBusinesses: count,
		TotalReviews:    reviews,
		TotalViews:      views,
	}
	if count > 0 {
		out.AverageRating = math.Round(ratingSum/float64(count)*100) / 100
	}
	return out
}

func containsIgnoreCase(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}

func locationOf(in businessdto.LocationInput) models.Location {
	return models.Location{
		Address:   in.Address,
		City:      strings.TrimSpace(in.City),
		State:     in.State,
		Country:   in.Country,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
