// Package models holds the documents of the business domain.
package models

import "time"

// Location is the postal address and optional coordinates of a business.
type Location struct {
	Address   string   `json:"address" bson:"address"`
	City      string   `json:"city" bson:"city"`
	State     string   `json:"state" bson:"state"`
	Country   string   `json:"country" bson:"country"`
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// Business is a listed place. Rating and ReviewCount are derived from the reviews and only
// written by the rating aggregator.
type Business struct {
	ID          int64     `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Location    Location  `json:"location" bson:"location"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Website     string    `json:"website,omitempty" bson:"website,omitempty"`
	PriceLevel  int       `json:"price_level" bson:"price_level"`
	Images      []string  `json:"images" bson:"images"`
	Tags        []string  `json:"tags" bson:"tags"`
	OwnerID     int64     `json:"owner_id" bson:"owner_id"`
	Rating      float64   `json:"rating" bson:"rating"`
	ReviewCount int64     `json:"review_count" bson:"review_count"`
	Views       int64     `json:"views" bson:"views"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
