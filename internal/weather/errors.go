package weather

import (
	"errors"
	"fmt"
)

// ErrGeneration indicates invalid generation input (frame count or parameters).
var ErrGeneration = errors.New("weather: invalid generation parameters")

// GenerationError names the offending field.
type GenerationError struct {
	Field  string
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("weather: invalid %s: %s", e.Field, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return ErrGeneration
}

func invalid(field, format string, args ...any) error {
	return &GenerationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
