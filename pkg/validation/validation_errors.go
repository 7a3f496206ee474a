package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps json field names to the labels shown to users
var FieldLabels = map[string]string{
	"name":               "Name",
	"email":              "Email",
	"password":           "Password",
	"currentPassword":    "Current password",
	"newPassword":        "New password",
	"role":               "Role",
	"phone":              "Phone",
	"bio":                "Bio",
	"skills":             "Skills",
	"institution":        "Institution",
	"degree":             "Degree",
	"field":              "Field of study",
	"startYear":          "Start year",
	"endYear":            "End year",
	"company":            "Company",
	"position":           "Position",
	"description":        "Description",
	"companyName":        "Company name",
	"companyWebsite":     "Company website",
	"companyDescription": "Company description",
	"title":              "Title",
	"location":           "Location",
	"salary":             "Salary",
	"experience":         "Experience",
	"type":               "Job type",
	"status":             "Status",
	"requirements":       "Requirements",
	"jobId":              "Job ID",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' -", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits, optionally starting with +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)
	case "max_current_year":
		return fmt.Sprintf("%s is too far in the future", label)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", label, getFieldLabel(lowerFirst(param)))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", label, getFieldLabel(lowerFirst(param)))
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return formatCamelCase(field)
}

// formatCamelCase turns startDate into "Start date".
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
			result.WriteRune(r + ('a' - 'A'))
			continue
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		result.WriteRune(r)
	}
	return result.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
