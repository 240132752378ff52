package businessdto

// LocationInput is the location part of BusinessInput.
type LocationInput struct {
	Address   string   `json:"address" validate:"required,max=200,no_xss"`
	City      string   `json:"city" validate:"required,max=100,no_xss"`
	State     string   `json:"state" validate:"required,max=100,no_xss"`
	Country   string   `json:"country" validate:"required,max=100,no_xss"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// BusinessInput is the body of create and full update.
type BusinessInput struct {
	Name        string        `json:"name" validate:"required,max=120,no_xss"`
	Description string        `json:"description" validate:"required,max=4000,no_xss"`
	Category    string        `json:"category" validate:"required,max=60,no_xss"`
	Location    LocationInput `json:"location" validate:"required"`
	Phone       string        `json:"phone" validate:"omitempty,max=40"`
	Website     string        `json:"website" validate:"omitempty,url,max=300"`
	PriceLevel  int           `json:"price_level" validate:"required,min=1,max=4"`
	Images      []string      `json:"images" validate:"omitempty,max=20,dive,url"`
	Tags        []string      `json:"tags" validate:"omitempty,max=30,dive,max=40,no_xss"`
}

// ListQuery holds the filters of GET /businesses.
type ListQuery struct {
	Category  string
	City      string
	MinRating *float64
	MaxPrice  *int
	Search    string
	Skip      int64
	Limit     int64
}

// OwnerAnalytics sums the businesses of one owner.
type OwnerAnalytics struct {
	TotalBusinesses int64   `json:"total_businesses"`
	AverageRating   float64 `json:"average_rating"`
	TotalReviews    int64   `json:"total_reviews"`
	TotalViews      int64   `json:"total_views"`
}
