// Package errs defines the sentinel error values shared across the cosim
// packages. Callers wrap them with fmt.Errorf("%w: ...") to attach context
// and test against them with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidType indicates a type name or kind that the value layer does
	// not recognise.
	ErrInvalidType = errors.New("invalid value type")

	// ErrUnknownUnit indicates a unit expression that cannot be parsed.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrIncompatibleUnits indicates a conversion between units that do not
	// share a dimension.
	ErrIncompatibleUnits = errors.New("incompatible units")

	// ErrLifecycle indicates an operation issued in a federate mode that does
	// not permit it.
	ErrLifecycle = errors.New("operation not allowed in current mode")

	// ErrDecode indicates a raw buffer that does not decode under its claimed
	// type.
	ErrDecode = errors.New("value decode failed")

	// ErrBufferTooShort indicates a raw buffer shorter than its self-describing
	// prefix requires.
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrUnsupportedCompression indicates a compression tag the codec does not
	// implement.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrCallbackType indicates a typed callback whose signature cannot serve
	// the input's declared target type.
	ErrCallbackType = errors.New("callback type mismatch")

	// ErrCustomType indicates a primary-type operation applied to an input
	// declared with a custom (non-primary) type.
	ErrCustomType = errors.New("custom type input")

	// ErrClosed indicates an operation on an interface that was closed.
	ErrClosed = errors.New("interface closed")

	// ErrSaturation indicates an integer that saturated during conversion.
	ErrSaturation = errors.New("integer saturation")

	// ErrUnknownPolicy indicates an unrecognised multi-input reduction policy.
	ErrUnknownPolicy = errors.New("unknown multi-input policy")

	// ErrUnknownHandle indicates a handle the core or registry does not know.
	ErrUnknownHandle = errors.New("unknown handle")
)
