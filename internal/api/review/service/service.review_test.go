package reviewsvc

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	authmodels "explorerhub/internal/api/auth/models"
	businessmodels "explorerhub/internal/api/business/models"
	reviewdto "explorerhub/internal/api/review/dto"
	models "explorerhub/internal/api/review/models"
	"explorerhub/internal/common"
	"explorerhub/internal/database/mongotest"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/rating"
	"explorerhub/internal/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout", FilterModules: "*"})
	code := m.Run()
	logger.Shutdown()
	os.Exit(code)
}

func TestRecompute_RefreshesThroughAggregator(t *testing.T) {
	store := rating.NewMemoryStore()
	store.AddBusiness(10)
	store.SetReviews(10, 5, 4, 4)
	svc := &ReviewService{ratings: rating.NewAggregator(store)}

	require.NoError(t, svc.recompute(context.Background(), 10))
	summary, ok := store.Summary(10)
	require.True(t, ok)
	assert.Equal(t, rating.Summary{Rating: 4.3, ReviewCount: 3}, summary)

	svc.ratings = failingRecomputer{}
	assert.ErrorIs(t, svc.recompute(context.Background(), 10), common.ErrStorageUnavailable)
}

func TestNewReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := NewReview(7, 3, "Ana", &reviewdto.CreateReviewInput{
		BusinessID:  11,
		ReviewInput: reviewdto.ReviewInput{Rating: 4, Title: " Good ", Text: "Nice place"},
	}, now)

	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, int64(11), r.BusinessID)
	assert.Equal(t, int64(3), r.UserID)
	assert.Equal(t, "Ana", r.UserName)
	assert.Equal(t, "Good", r.Title)
	assert.NotNil(t, r.Images)
	assert.Zero(t, r.HelpfulCount)
	assert.Equal(t, now, r.CreatedAt)
}

func TestEditableFields(t *testing.T) {
	set := EditableFields(&reviewdto.ReviewInput{Rating: 2, Title: "Meh", Text: "ok"})
	assert.Equal(t, 2, set["rating"])
	for _, key := range []string{"id", "business_id", "user_id", "user_name", "helpful_count", "created_at"} {
		assert.NotContains(t, set, key)
	}
}

type failingRecomputer struct{}

func (failingRecomputer) Recompute(context.Context, int64) (rating.Summary, error) {
	return rating.Summary{}, common.ErrStorageUnavailable
}

func review(businessID int64, stars int) *reviewdto.CreateReviewInput {
	return &reviewdto.CreateReviewInput{
		BusinessID:  businessID,
		ReviewInput: reviewdto.ReviewInput{Rating: stars, Title: "t", Text: "x"},
	}
}

func TestReviewService_Mongo(t *testing.T) {
	db := mongotest.Database(t)
	ctx := context.Background()
	cols := global.MongoDB_ColNames

	for _, u := range []authmodels.User{{ID: 1, Email: "a@x.io", FullName: "Ana"}, {ID: 2, Email: "b@x.io", FullName: "Bea"}, {ID: 3, Email: "c@x.io", FullName: "Cy"}} {
		_, err := db.Collection(cols.Users).InsertOne(ctx, u)
		require.NoError(t, err)
	}
	_, err := db.Collection(cols.Businesses).InsertOne(ctx, businessmodels.Business{ID: 10, Name: "Cafe", IsActive: true})
	require.NoError(t, err)

	aggregator := rating.NewAggregator(rating.NewMongoStore(db.Collection(cols.Reviews), db.Collection(cols.Businesses)))
	svc, err := NewReviewService(sequence.NewAllocator(sequence.NewMemoryStore(nil)), aggregator)
	require.NoError(t, err)

	summary := func() (float64, int64) {
		var b businessmodels.Business
		require.NoError(t, db.Collection(cols.Businesses).FindOne(ctx, map[string]any{"id": 10}).Decode(&b))
		return b.Rating, b.ReviewCount
	}

	_, err = svc.Create(ctx, 1, review(99, 5))
	assert.ErrorIs(t, err, common.ErrBusinessNotFound)

	first, err := svc.Create(ctx, 1, review(10, 5))
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.UserName)
	_, err = svc.Create(ctx, 1, review(10, 1))
	assert.ErrorIs(t, err, common.ErrAlreadyReviewed)

	_, err = svc.Create(ctx, 2, review(10, 5))
	require.NoError(t, err)
	third, err := svc.Create(ctx, 3, review(10, 4))
	require.NoError(t, err)

	r, n := summary()
	assert.Equal(t, 4.7, r)
	assert.Equal(t, int64(3), n)

	_, err = svc.Update(ctx, third.ID, 1, &reviewdto.ReviewInput{Rating: 1, Title: "t", Text: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	updated, err := svc.Update(ctx, third.ID, 3, &reviewdto.ReviewInput{Rating: 2, Title: "worse", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	r, n = summary()
	assert.Equal(t, 4.0, r)
	assert.Equal(t, int64(3), n)

	require.NoError(t, svc.MarkHelpful(ctx, first.ID))
	assert.ErrorIs(t, svc.MarkHelpful(ctx, 999), common.ErrReviewNotFound)

	listed, err := svc.ListByBusiness(ctx, 10, 0, 2)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	mine, err := svc.ListMine(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(1), mine[0].HelpfulCount)

	assert.ErrorIs(t, svc.Delete(ctx, first.ID, 2), common.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, 999, 2), common.ErrReviewNotFound)
	require.NoError(t, svc.Delete(ctx, first.ID, 1))
	require.NoError(t, svc.Delete(ctx, first.ID+1, 2))
	require.NoError(t, svc.Delete(ctx, third.ID, 3))
	r, n = summary()
	assert.Zero(t, r)
	assert.Zero(t, n)

	// A failed recompute keeps the committed review and reports it to the caller.
	svc.ratings = failingRecomputer{}
	created, err := svc.Create(ctx, 1, review(10, 3))
	assert.True(t, errors.Is(err, common.ErrRatingNotRefreshed))
	require.NotNil(t, created)
	assert.Positive(t, created.ID)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, map[string]any{"review_id": created.ID, "business_id": int64(10)}, appErr.Details)

	stored, err := svc.FindOneByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Rating)

	_, err = svc.Create(ctx, 1, review(10, 4))
	assert.True(t, errors.Is(err, common.ErrAlreadyReviewed))

	edited, err := svc.Update(ctx, created.ID, 1, &reviewdto.ReviewInput{Rating: 5, Title: "t", Text: "x"})
	assert.True(t, errors.Is(err, common.ErrRatingNotRefreshed))
	require.NotNil(t, edited)
	assert.Equal(t, 5, edited.Rating)

	err = svc.Delete(ctx, created.ID, 1)
	assert.True(t, errors.Is(err, common.ErrRatingNotRefreshed))
	_, err = svc.FindOneByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRatingNotRefreshed(t *testing.T) {
	err := RatingNotRefreshed(&models.Review{ID: 7, BusinessID: 3})
	assert.ErrorIs(t, err, common.ErrRatingNotRefreshed)
	assert.False(t, errors.Is(err, common.ErrStorageUnavailable))

	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusServiceUnavailable, appErr.StatusCode)
	assert.Equal(t, map[string]any{"review_id": int64(7), "business_id": int64(3)}, appErr.Details)
}
