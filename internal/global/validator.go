package global

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var userNamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// InitValidator creates the shared validator and registers the custom rules.
func InitValidator() {
	Validate = validator.New()

	// Field errors report the json name of the field.
	Validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("username", validateUserName)
	_ = Validate.RegisterValidation("objectid", validateObjectID)
}

// validateNoXSS rejects values that carry markup or script injection.
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
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

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateUserName accepts 3 to 30 lowercase letters, digits, dots or underscores.
// Handles are lowercased before validation, so mixed case input still passes.
func validateUserName(fl validator.FieldLevel) bool {
	return userNamePattern.MatchString(strings.ToLower(strings.TrimSpace(fl.Field().String())))
}

func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
