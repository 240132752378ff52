// Package models holds the documents of the auth domain.
package models

import "time"

// Roles a user can sign up with.
const (
	RoleClient   = "client"
	RoleBusiness = "business"
)

// User is a registered account. ID is issued by the users sequence.
type User struct {
	ID             int64     `json:"id" bson:"id"`
	Email          string    `json:"email" bson:"email"`
	FullName       string    `json:"full_name" bson:"full_name"`
	Role           string    `json:"role" bson:"role"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	BirthDate      string    `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	Country        string    `json:"country,omitempty" bson:"country,omitempty"`
	Language       string    `json:"language" bson:"language"`
	Preferences    []string  `json:"preferences" bson:"preferences"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// IsBusiness reports whether the user may own businesses.
func (u *User) IsBusiness() bool {
	return u.Role == RoleBusiness
}
