package cqrs

import (
	"context"
	"reflect"
	"slices"

	"github.com/code19m/errx"
	"github.com/samber/lo"
)

//nolint:gochecknoglobals // interface type used for registration checks
var requestInterface = reflect.TypeFor[Request]()

// Registry maps request types to their handlers.
//
// Registration happens once at startup. After that the registry is only read
// and may be shared between goroutines without locking; registering
// concurrently with dispatching is not supported.
type Registry struct {
	handlers map[reflect.Type]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[reflect.Type]Handler),
	}
}

// Register binds handler to requestType.
//
// A second registration for the same type fails with DUPLICATE_HANDLER and
// leaves the first one in effect. T and *T are different request types.
func (r *Registry) Register(requestType reflect.Type, handler Handler) error {
	if requestType == nil || !requestType.Implements(requestInterface) {
		return errx.New(
			"request type must implement cqrs.Request",
			errx.WithCode(CodeInvalidHandler),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"request_type": typeName(requestType)}),
		)
	}
	if handler == nil {
		return errx.New(
			"handler must not be nil",
			errx.WithCode(CodeInvalidHandler),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"request_type": typeName(requestType)}),
		)
	}

	if _, ok := r.handlers[requestType]; ok {
		return errDuplicateHandler(requestType)
	}

	r.handlers[requestType] = handler
	return nil
}

// Resolve returns the handler bound to the exact type of req.
// Embedding a registered type or using a pointer to it does not match.
func (r *Registry) Resolve(req Request) (Handler, error) {
	requestType := reflect.TypeOf(req)

	handler, ok := r.handlers[requestType]
	if !ok {
		return nil, errHandlerNotFound(requestType)
	}
	return handler, nil
}

// RequestTypes lists the registered request types, sorted.
func (r *Registry) RequestTypes() []string {
	names := lo.Map(lo.Keys(r.handlers), func(t reflect.Type, _ int) string {
		return t.String()
	})
	slices.Sort(names)
	return names
}

// RegisterFunc registers a typed function as the handler for request type R.
func RegisterFunc[R Request, T any](r *Registry, fn func(context.Context, R) (T, error)) error {
	if fn == nil {
		return r.Register(reflect.TypeFor[R](), nil)
	}

	return r.Register(reflect.TypeFor[R](), HandlerFunc(func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(R)
		if !ok {
			return nil, errResultTypeMismatch(req, reflect.TypeFor[R]())
		}

		result, err := fn(ctx, typed)
		if err != nil {
			return nil, err
		}
		return result, nil
	}))
}
