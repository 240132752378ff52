package tripdto

// TripInput is the body of create and full update.
type TripInput struct {
	Name        string `json:"name" validate:"required,max=120,no_xss"`
	Destination string `json:"destination" validate:"required,max=120,no_xss"`
	StartDate   string `json:"start_date" validate:"required,iso_date"`
	EndDate     string `json:"end_date" validate:"required,iso_date"`
	Description string `json:"description" validate:"omitempty,max=2000,no_xss"`
}

// ActivityInput is the body of POST /trips/:id/activities.
type ActivityInput struct {
	BusinessID    int64  `json:"business_id" validate:"required,gt=0"`
	BusinessName  string `json:"business_name" validate:"required,max=120,no_xss"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty,iso_date"`
	Notes         string `json:"notes" validate:"omitempty,max=1000,no_xss"`
}
