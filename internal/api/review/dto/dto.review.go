package reviewdto

// ReviewInput is the editable part of a review.
type ReviewInput struct {
	Rating int      `json:"rating" validate:"required,min=1,max=5"`
	Title  string   `json:"title" validate:"required,max=150,no_xss"`
	Text   string   `json:"text" validate:"required,max=5000,no_xss"`
	Images []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

// CreateReviewInput is the body of POST /reviews.
type CreateReviewInput struct {
	BusinessID int64 `json:"business_id" validate:"required,gt=0"`
	ReviewInput
}
