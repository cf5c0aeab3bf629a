package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

// ValidateSchema validates a struct (or pointer to struct) using its `validate` tags.
// Field names in the returned error follow the json tags of the schema.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	return toErrorX(err, "")
}

// ValidateVar validates a single value against tag and reports failures under field.
func ValidateVar(field string, value any, tag string) error {
	err := getValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	return toErrorX(err, field)
}

// NewFieldError builds a validation error for a single field without running the validator.
func NewFieldError(field, description string) error {
	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(errx.M{field: description}),
	)
}

// IsValidationError reports whether err is a validation failure produced by this package.
func IsValidationError(err error) bool {
	return errx.IsCodeIn(err, CodeValidationFailed)
}

func toErrorX(err error, field string) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(errx.M)

		for _, fieldErr := range validationErrors {
			name := fieldErr.Field()
			if field != "" {
				name = field
			}
			fields[name] = getFieldErrDescription(fieldErr)
		}

		return errx.New(
			"Validation failed. See fields for details.",
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
			errx.WithFields(fields),
		)
	}

	return errx.New(
		fmt.Sprintf("Unknown validation error: %s", err.Error()),
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
	)
}

func getFieldErrDescription(fieldErr validator.FieldError) string {
	param := fieldErr.Param()

	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "alphanum":
		return "Must contain only alphanumeric characters"
	case "url":
		return "Must be a valid URL"
	case "datetime":
		return fmt.Sprintf("Must be a valid datetime in format: %s", param)
	case TagPayPalOrderID:
		return "Must be a valid PayPal order id (17 upper-case letters or digits)"
	}

	return fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
}
