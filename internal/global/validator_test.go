package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required,no_xss"`
	Date string `validate:"omitempty,iso_date"`
}

func TestValidator_CustomRules(t *testing.T) {
	InitValidator()

	assert.NoError(t, Validate.Struct(sample{Name: "Blue Lagoon Cafe", Date: "2024-06-01"}))
	assert.Error(t, Validate.Struct(sample{Name: `<SCRIPT>alert(1)</script>`}))
	assert.Error(t, Validate.Struct(sample{Name: "ok", Date: "01/06/2024"}))
	assert.Error(t, Validate.Struct(sample{}))
}
