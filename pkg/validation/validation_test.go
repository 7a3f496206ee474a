package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name     string `json:"name" validate:"required,not_blank,valid_name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=applicant recruiter"`
	Phone    string `json:"phone" validate:"valid_phone"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := New()

	t.Run("Should report json field names with English messages", func(t *testing.T) {
		err := v.Struct(signupForm{
			Name:     "   ",
			Email:    "not-an-email",
			Password: "123",
			Role:     "admin",
			Phone:    "abc",
		})
		require.Error(t, err)

		msgs := FormatValidationErrors(err)
		assert.Contains(t, msgs, "Name is required")
		assert.Contains(t, msgs, "Email must be a valid email address")
		assert.Contains(t, msgs, "Password must be at least 6 characters")
		assert.Contains(t, msgs, "Role must be one of: applicant, recruiter")
		assert.Contains(t, msgs, "Phone must be 7-15 digits, optionally starting with +")
	})

	t.Run("Should pass a valid form", func(t *testing.T) {
		err := v.Struct(signupForm{
			Name:     "Anne-Marie O'Neil",
			Email:    "anne@example.com",
			Password: "secret1",
			Role:     "recruiter",
			Phone:    "+91 98765-43210",
		})
		assert.NoError(t, err)
	})

	t.Run("Should fall back to camel case labels", func(t *testing.T) {
		assert.Equal(t, "Start date", getFieldLabel("startDate"))
	})
}
