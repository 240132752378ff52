// Package reviewsvc - reviews and the rating summary they feed.
package reviewsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	authmodels "explorerhub/internal/api/auth/models"
	basesvc "explorerhub/internal/api/base/service"
	businessmodels "explorerhub/internal/api/business/models"
	reviewdto "explorerhub/internal/api/review/dto"
	models "explorerhub/internal/api/review/models"
	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/rating"
	"explorerhub/internal/sequence"

	"go.mongodb.org/mongo-driver/bson"
)

// mineListLimit caps GET /reviews/mine.
const mineListLimit = 100

// Recomputer refreshes the rating summary of a business. *rating.Aggregator implements it.
type Recomputer interface {
	Recompute(ctx context.Context, businessID int64) (rating.Summary, error)
}

// ReviewService handles the reviews collection. Every write is followed by a recompute of
// the reviewed business's summary, and the caller gets its result.
type ReviewService struct {
	*basesvc.BaseServiceMongoImpl[models.Review]
	businesses *basesvc.BaseServiceMongoImpl[businessmodels.Business]
	users      *basesvc.BaseServiceMongoImpl[authmodels.User]
	ids        basesvc.IDAllocator
	ratings    Recomputer
}

// NewReviewService creates the ReviewService.
func NewReviewService(ids basesvc.IDAllocator, ratings Recomputer) (*ReviewService, error) {
	reviews, err := basesvc.Collection(global.MongoDB_ColNames.Reviews)
	if err != nil {
		return nil, err
	}
	businesses, err := basesvc.Collection(global.MongoDB_ColNames.Businesses)
	if err != nil {
		return nil, err
	}
	users, err := basesvc.Collection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &ReviewService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Review](reviews),
		businesses:           basesvc.NewBaseServiceMongo[businessmodels.Business](businesses),
		users:                basesvc.NewBaseServiceMongo[authmodels.User](users),
		ids:                  ids,
		ratings:              ratings,
	}, nil
}

// Create stores the caller's review of a business and refreshes the business summary.
// When only the refresh fails the stored review is returned with ErrRatingNotRefreshed.
func (s *ReviewService) Create(ctx context.Context, userID int64, input *reviewdto.CreateReviewInput) (*models.Review, error) {
	exists, err := s.businesses.DocumentExists(ctx, bson.M{"id": input.BusinessID})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrBusinessNotFound
	}

	reviewed, err := s.DocumentExists(ctx, bson.M{"business_id": input.BusinessID, "user_id": userID})
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, common.ErrAlreadyReviewed
	}

	author, err := s.users.FindOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	id, err := s.ids.NextValue(ctx, sequence.Reviews)
	if err != nil {
		return nil, err
	}
	review := NewReview(id, userID, author.FullName, input, time.Now().UTC())
	if _, err := s.InsertOne(ctx, review); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{"review_id": id, "business_id": review.BusinessID}).Info("Review created")

	if err := s.recompute(ctx, review.BusinessID); err != nil {
		return &review, RatingNotRefreshed(&review)
	}
	return &review, nil
}

// ListByBusiness returns the reviews of a business, newest first.
func (s *ReviewService) ListByBusiness(ctx context.Context, businessID, skip, limit int64) ([]models.Review, error) {
	return s.FindWithSkip(ctx, bson.M{"business_id": businessID}, skip, limit, newestFirst())
}

// ListMine returns the caller's reviews, newest first.
func (s *ReviewService) ListMine(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.FindWithSkip(ctx, bson.M{"user_id": userID}, 0, mineListLimit, newestFirst())
}

// Update replaces the editable fields of the caller's review.
func (s *ReviewService) Update(ctx context.Context, id, userID int64, input *reviewdto.ReviewInput) (*models.Review, error) {
	existing, err := s.authored(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.FindOneAndUpdate(ctx, bson.M{"id": id}, &basesvc.UpdateData{Set: EditableFields(input)})
	if err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, existing.BusinessID); err != nil {
		return &updated, RatingNotRefreshed(&updated)
	}
	return &updated, nil
}

// Delete removes the caller's review.
func (s *ReviewService) Delete(ctx context.Context, id, userID int64) error {
	existing, err := s.authored(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrReviewNotFound
		}
		return err
	}
	if err := s.recompute(ctx, existing.BusinessID); err != nil {
		return RatingNotRefreshed(existing)
	}
	return nil
}

// MarkHelpful adds one to the helpful counter.
func (s *ReviewService) MarkHelpful(ctx context.Context, id int64) error {
	res, err := s.Collection().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"helpful_count": 1}})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrReviewNotFound
	}
	return nil
}

func (s *ReviewService) authored(ctx context.Context, id, userID int64) (*models.Review, error) {
	review, err := s.FindOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, common.ErrForbidden
	}
	return &review, nil
}

// RatingNotRefreshed is the error of a committed review write whose summary refresh
// failed. It matches common.ErrRatingNotRefreshed and carries the review and business ids.
func RatingNotRefreshed(review *models.Review) error {
	base := common.ErrRatingNotRefreshed.(*common.Error)
	return &common.Error{
		Code:       base.Code,
		Message:    base.Message,
		StatusCode: base.StatusCode,
		Details:    map[string]any{"review_id": review.ID, "business_id": review.BusinessID},
	}
}

// recompute runs the aggregator. The review write has already happened when this fails,
// and the next successful recompute repairs the summary.
func (s *ReviewService) recompute(ctx context.Context, businessID int64) error {
	summary, err := s.ratings.Recompute(ctx, businessID)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("business_id", businessID).Error("Rating recompute failed")
		return err
	}
	logger.WithContext(ctx).WithFields(map[string]any{
		"business_id":  businessID,
		"rating":       summary.Rating,
		"review_count": summary.ReviewCount,
	}).Debug("Rating recomputed")
	return nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}}
}

// NewReview builds the stored document of a new review.
func NewReview(id, userID int64, userName string, input *reviewdto.CreateReviewInput, now time.Time) models.Review {
	return models.Review{
		ID:           id,
		BusinessID:   input.BusinessID,
		UserID:       userID,
		UserName:     userName,
		Rating:       input.Rating,
		Title:        strings.TrimSpace(input.Title),
		Text:         input.Text,
		Images:       nonNil(input.Images),
		HelpfulCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EditableFields is the $set of a review update. The business, author and counters stay.
func EditableFields(input *reviewdto.ReviewInput) map[string]any {
	return map[string]any{
		"rating": input.Rating,
		"title":  strings.TrimSpace(input.Title),
		"text":   input.Text,
		"images": nonNil(input.Images),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
