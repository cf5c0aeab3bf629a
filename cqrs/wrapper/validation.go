package wrapper

import (
	"context"
	"reflect"

	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/val"
)

// NewValidationWrapper validates struct requests against their `validate` tags.
// A failing request never reaches the handler.
func NewValidationWrapper() cqrs.WrapFunc {
	return func(next cqrs.Handler) cqrs.Handler {
		return cqrs.HandlerFunc(func(ctx context.Context, req cqrs.Request) (any, error) {
			if isStruct(req) {
				if err := val.ValidateSchema(req); err != nil {
					return nil, err
				}
			}

			return next.Handle(ctx, req)
		})
	}
}

func isStruct(v any) bool {
	return reflect.Indirect(reflect.ValueOf(v)).Kind() == reflect.Struct
}
