package prediction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks client errors: missing, malformed or out of range fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInference marks failures of the underlying estimator.
	ErrInference = errors.New("inference failed")
)

// Error kinds reported to clients.
const (
	KindInvalidInput = "invalid_input"
	KindInference    = "inference_error"
)

// InputError describes why a single field was rejected.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// KindOf classifies err for error responses.
func KindOf(err error) string {
	if errors.Is(err, ErrInvalidInput) {
		return KindInvalidInput
	}
	return KindInference
}
