// Package val provides validation functions for commands, queries, value objects and configuration.
package val

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate //nolint: gochecknoglobals // validator caches struct metadata and is safe for concurrent use

func init() { //nolint: gochecknoinits // custom tags must be registered before first use
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(getTagName)
	registerCustomValidations(validate)
}

func getValidator() *validator.Validate {
	return validate
}

// getTagName returns the name of a struct field based on its struct tags.
// It checks 'json', 'query', and 'params' tags in that order, and falls back
// to the field name if none of those tags have a non-empty name component.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "query", "params"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}

	return fld.Name
}
