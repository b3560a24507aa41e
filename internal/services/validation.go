package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first field rule a write broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type profileRules struct {
	Name  string   `validate:"required"`
	Email string   `validate:"required,email"`
	Age   *float64 `validate:"omitempty,gte=0"`
}

type passwordRules struct {
	Password string `validate:"required,min=6,excludes=password"`
}

type taskRules struct {
	Description string `validate:"required"`
}

var ruleMessages = map[string]string{
	"Name.required":        "Name is required",
	"Email.required":       "Email is required",
	"Email.email":          "Email is invalid",
	"Age.gte":              "Age must be a positive number",
	"Password.required":    "Password is required",
	"Password.min":         "Password must be at least 6 characters long",
	"Password.excludes":    `Word "Password" isn't a valid password`,
	"Description.required": "Description is required",
}

// checkRules validates v and converts the first failed rule into a
// *ValidationError.
func checkRules(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	msg, ok := ruleMessages[first.Field()+"."+first.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", first.Field())
	}
	return &ValidationError{
		Field:   strings.ToLower(first.Field()),
		Message: msg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
