package cqrs

import (
	"fmt"
	"reflect"

	"github.com/code19m/errx"
)

// Error codes produced by the registry and the bus.
const (
	// CodeHandlerNotFound is returned when a request type has no registered handler.
	CodeHandlerNotFound = "HANDLER_NOT_FOUND"

	// CodeDuplicateHandler is returned when a second handler is registered for a request type.
	CodeDuplicateHandler = "DUPLICATE_HANDLER"

	// CodeInvalidHandler is returned when a registration is malformed.
	CodeInvalidHandler = "INVALID_HANDLER"

	// CodeResultTypeMismatch is returned when a handler result does not have the expected type.
	CodeResultTypeMismatch = "RESULT_TYPE_MISMATCH"

	// CodePanicRecovered is returned when a handler panics.
	CodePanicRecovered = "PANIC_RECOVERED"
)

// IsHandlerNotFound reports whether err signals a request without a handler.
func IsHandlerNotFound(err error) bool {
	return errx.IsCodeIn(err, CodeHandlerNotFound)
}

// IsDuplicateHandler reports whether err signals a second registration for a request type.
func IsDuplicateHandler(err error) bool {
	return errx.IsCodeIn(err, CodeDuplicateHandler)
}

func errHandlerNotFound(requestType reflect.Type) error {
	return errx.New(
		fmt.Sprintf("no handler registered for %s", typeName(requestType)),
		errx.WithCode(CodeHandlerNotFound),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"request_type": typeName(requestType)}),
	)
}

func errDuplicateHandler(requestType reflect.Type) error {
	return errx.New(
		fmt.Sprintf("handler is already registered for %s", typeName(requestType)),
		errx.WithCode(CodeDuplicateHandler),
		errx.WithType(errx.T_Conflict),
		errx.WithDetails(errx.D{"request_type": typeName(requestType)}),
	)
}

func errResultTypeMismatch(got any, want reflect.Type) error {
	return errx.New(
		"handler returned a result of unexpected type",
		errx.WithCode(CodeResultTypeMismatch),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{
			"got":  fmt.Sprintf("%T", got),
			"want": typeName(want),
		}),
	)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
