package authdto

import models "explorerhub/internal/api/auth/models"

// SignupInput is the body of POST /auth/signup.
type SignupInput struct {
	Email       string   `json:"email" validate:"required,email,max=254"`
	Password    string   `json:"password" validate:"required,min=6,max=72"`
	FullName    string   `json:"full_name" validate:"required,max=120,no_xss"`
	Role        string   `json:"role" validate:"omitempty,oneof=client business"`
	BirthDate   string   `json:"birth_date" validate:"omitempty,iso_date"`
	Country     string   `json:"country" validate:"omitempty,max=80,no_xss"`
	Language    string   `json:"language" validate:"omitempty,max=10"`
	Preferences []string `json:"preferences" validate:"omitempty,max=50,dive,max=50,no_xss"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"` // seconds
	User        *models.User `json:"user"`
}
