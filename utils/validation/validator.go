package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// PhoneRegex accepts 10-digit subscriber numbers with an optional country code
	PhoneRegex = regexp.MustCompile(`^(\+\d{1,3})?\d{10}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the domain tags registered
func NewValidator() *Validator {
	v := validator.New()

	// "month" validates a YYYY-MM calendar month
	v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return IsValidMonth(fl.Field().String())
	})

	// "phone" validates a dialable phone number
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return PhoneRegex.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "phone":
				errors[field] = "Invalid phone number"
			case "month":
				errors[field] = "Month must be in YYYY-MM format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// IsValidMonth checks a YYYY-MM calendar month string
func IsValidMonth(month string) bool {
	if len(month) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// NormalizeGender maps arbitrary gender input onto the two values the hostel
// tracks. Anything that is not "Male" (any casing) counts as "Female",
// matching the ID-prefix rule.
func NormalizeGender(gender string) string {
	if strings.EqualFold(strings.TrimSpace(gender), "male") {
		return "Male"
	}
	return "Female"
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
