package render

import "errors"

// Failures are programmer-contract violations, surfaced synchronously
// and never retried. Match with errors.Is; call sites add context via
// fmt.Errorf("%w: ...").
var (
	ErrInvalidFormat     = errors.New("invalid vertex format")
	ErrAttributeNotFound = errors.New("vertex attribute not found")
	ErrFormatMismatch    = errors.New("vertex format mismatch")
	ErrIndexOutOfRange   = errors.New("vertex index out of range")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoContext         = errors.New("no graphics context")
	ErrDisposed          = errors.New("use after dispose")
)
