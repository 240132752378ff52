// Package models holds the documents of the trip domain.
package models

import "time"

// TripActivity is a business scheduled into a trip.
type TripActivity struct {
	BusinessID    int64  `json:"business_id" bson:"business_id"`
	BusinessName  string `json:"business_name" bson:"business_name"`
	ScheduledDate string `json:"scheduled_date,omitempty" bson:"scheduled_date,omitempty"`
	Notes         string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Trip is a user's travel plan. Dates are YYYY-MM-DD, which sort correctly as strings.
type Trip struct {
	ID          int64          `json:"id" bson:"id"`
	UserID      int64          `json:"user_id" bson:"user_id"`
	Name        string         `json:"name" bson:"name"`
	Destination string         `json:"destination" bson:"destination"`
	StartDate   string         `json:"start_date" bson:"start_date"`
	EndDate     string         `json:"end_date" bson:"end_date"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Activities  []TripActivity `json:"activities" bson:"activities"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}
