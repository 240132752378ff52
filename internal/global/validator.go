package global

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// InitValidator creates the shared validator and registers the custom rules.
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("iso_date", validateISODate)
}

var xssPatterns = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"onclick=",
	"onmouseover=",
	"eval(",
	"document.cookie",
	"document.write",
	"innerhtml",
	"fromcharcode",
	"window.location",
	"<iframe",
	"<object",
	"<embed",
}

// validateNoXSS rejects strings carrying obvious script injection.
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, pattern := range xssPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateISODate accepts YYYY-MM-DD dates.
func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
