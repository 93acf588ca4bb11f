package forecaster

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrInferenceError     = errors.New("inference error")
)

// Error is a request failure tagged with one of ErrInvalidInput, ErrServiceUnavailable
// or ErrInferenceError. Detail is the message returned to the caller.
type Error struct {
	Kind   error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	return e.Detail
}

// Is matches the kind of the error
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func invalidInput(detail string, cause error) *Error {
	return &Error{Kind: ErrInvalidInput, Detail: detail, Cause: cause}
}

func serviceUnavailable(detail string, cause error) *Error {
	return &Error{Kind: ErrServiceUnavailable, Detail: detail, Cause: cause}
}

func inferenceError(detail string, cause error) *Error {
	return &Error{Kind: ErrInferenceError, Detail: detail, Cause: cause}
}
