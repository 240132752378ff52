// Package models holds the documents of the review domain.
package models

import "time"

// Review is one user's rating of one business. A user reviews a business at most once.
type Review struct {
	ID           int64     `json:"id" bson:"id"`
	BusinessID   int64     `json:"business_id" bson:"business_id"`
	UserID       int64     `json:"user_id" bson:"user_id"`
	UserName     string    `json:"user_name" bson:"user_name"`
	Rating       int       `json:"rating" bson:"rating"`
	Title        string    `json:"title" bson:"title"`
	Text         string    `json:"text" bson:"text"`
	Images       []string  `json:"images" bson:"images"`
	HelpfulCount int64     `json:"helpful_count" bson:"helpful_count"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
