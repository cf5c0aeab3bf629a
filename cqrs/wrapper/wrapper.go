// Package wrapper provides optional stages for the cqrs bus.
//
// Each constructor returns a cqrs.WrapFunc that is installed with
// cqrs.WithWrappers. Wrappers run after the bus has injected metadata and
// written its entry log, in the order they were passed. None of them log on
// the success path.
package wrapper
