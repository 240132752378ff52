package businesssvc

import (
	"context"
	"testing"
	"time"

	businessdto "explorerhub/internal/api/business/dto"
	"explorerhub/internal/common"
	"explorerhub/internal/database/mongotest"
	"explorerhub/internal/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListFilter(t *testing.T) {
	t.Run("only active by default", func(t *testing.T) {
		assert.Equal(t, bson.M{"is_active": true}, BuildListFilter(&businessdto.ListQuery{}))
		assert.Equal(t, bson.M{"is_active": true}, BuildListFilter(nil))
	})

	t.Run("all filters", func(t *testing.T) {
		minRating := 4.5
		maxPrice := 2
		f := BuildListFilter(&businessdto.ListQuery{
			Category:  "restaurant",
			City:      " San José ",
			MinRating: &minRating,
			MaxPrice:  &maxPrice,
			Search:    "taco",
		})
		assert.Equal(t, true, f["is_active"])
		assert.Equal(t, "restaurant", f["category"])
		assert.Equal(t, primitive.Regex{Pattern: "San José", Options: "i"}, f["location.city"])
		assert.Equal(t, bson.M{"$gte": 4.5}, f["rating"])
		assert.Equal(t, bson.M{"$lte": 2}, f["price_level"])

		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		assert.Len(t, or, 3)
		assert.Equal(t, bson.M{"tags": primitive.Regex{Pattern: "taco", Options: "i"}}, or[2])
	})

	t.Run("regex metacharacters are quoted", func(t *testing.T) {
		f := BuildListFilter(&businessdto.ListQuery{City: "a.b(c", Search: ".*"})
		assert.Equal(t, `a\.b\(c`, f["location.city"].(primitive.Regex).Pattern)
		or := f["$or"].(bson.A)
		assert.Equal(t, `\.\*`, or[0].(bson.M)["name"].(primitive.Regex).Pattern)
	})
}

func TestAnalyticsFromTotals(t *testing.T) {
	assert.Equal(t, businessdto.OwnerAnalytics{}, AnalyticsFromTotals(0, 0, 0, 0))

	a := AnalyticsFromTotals(3, 4.7+4.0+3.3, 12, 140)
	assert.Equal(t, int64(3), a.TotalBusinesses)
	assert.Equal(t, 4.0, a.AverageRating)
	assert.Equal(t, int64(12), a.TotalReviews)
	assert.Equal(t, int64(140), a.TotalViews)

	assert.Equal(t, 4.33, AnalyticsFromTotals(3, 4.0+4.5+4.5, 0, 0).AverageRating)
	assert.Equal(t, 4.67, AnalyticsFromTotals(3, 5+5+4, 0, 0).AverageRating)
}

func sampleInput() *businessdto.BusinessInput {
	return &businessdto.BusinessInput{
		Name:        " Taquería ",
		Description: "Tacos",
		Category:    "restaurant",
		Location:    businessdto.LocationInput{Address: "1 Main", City: "Oaxaca", State: "OAX", Country: "MX"},
		PriceLevel:  2,
	}
}

func TestNewBusiness(t *testing.T) {
	now := time.Now().UTC()
	b := NewBusiness(5, 9, sampleInput(), now)
	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, int64(9), b.OwnerID)
	assert.Equal(t, "Taquería", b.Name)
	assert.True(t, b.IsActive)
	assert.Zero(t, b.Rating)
	assert.Zero(t, b.ReviewCount)
	assert.Zero(t, b.Views)
	assert.NotNil(t, b.Images)
	assert.NotNil(t, b.Tags)
	assert.Equal(t, "Oaxaca", b.Location.City)
}

func TestEditableFields_LeavesDerivedFieldsAlone(t *testing.T) {
	set := EditableFields(sampleInput())
	for _, key := range []string{"id", "owner_id", "rating", "review_count", "views", "is_active", "created_at"} {
		assert.NotContains(t, set, key)
	}
	assert.Equal(t, "Taquería", set["name"])
}

func TestBusinessService_Mongo(t *testing.T) {
	mongotest.Database(t)
	svc, err := NewBusinessService(sequence.NewAllocator(sequence.NewMemoryStore(nil)))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, 1, "client", sampleInput())
	assert.ErrorIs(t, err, common.ErrBusinessRoleOnly)

	first, err := svc.Create(ctx, 1, "business", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	second, err := svc.Create(ctx, 1, "business", sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	_, err = svc.Update(ctx, first.ID, 2, sampleInput())
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.Update(ctx, 99, 1, sampleInput())
	assert.ErrorIs(t, err, common.ErrBusinessNotFound)

	input := sampleInput()
	input.Name = "Renamed"
	updated, err := svc.Update(ctx, first.ID, 1, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, first.ID, updated.ID)

	require.NoError(t, svc.IncrementViews(ctx, first.ID))
	require.NoError(t, svc.IncrementViews(ctx, first.ID))
	assert.ErrorIs(t, svc.IncrementViews(ctx, 99), common.ErrBusinessNotFound)

	require.NoError(t, svc.Deactivate(ctx, second.ID, 1))
	listed, err := svc.List(ctx, &businessdto.ListQuery{City: "oax", Limit: 20})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	mine, err := svc.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	analytics, err := svc.Analytics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.TotalBusinesses)
	assert.Equal(t, int64(2), analytics.TotalViews)

	empty, err := svc.Analytics(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalBusinesses)
}
