package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	// PhoneRegex matches Iraqi mobile numbers: "07" followed by nine digits
	PhoneRegex = regexp.MustCompile(`^07[0-9]{9}$`)
)

const (
	// MinRating and MaxRating bound the star rating
	MinRating = 1
	MaxRating = 5

	// CommentMinLength and CommentMaxLength bound the review comment, counted
	// in characters (Kurdish text is multi-byte, so bytes would undercount)
	CommentMinLength = 10
	CommentMaxLength = 500
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
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
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ValidatePhone checks an Iraqi mobile number: exactly 11 ASCII digits starting
// with "07". No normalization, no "+964" handling.
func ValidatePhone(phone string) bool {
	return PhoneRegex.MatchString(phone)
}

// ValidateRating checks that a star rating is an integer in [1,5]
func ValidateRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ValidateCommentLength checks that a comment is 10 to 500 characters inclusive
func ValidateCommentLength(comment string) bool {
	n := utf8.RuneCountInString(comment)
	return n >= CommentMinLength && n <= CommentMaxLength
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
