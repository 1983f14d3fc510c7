package encode

import (
	"errors"
	"fmt"
)

var (
	// ErrCapabilityUnavailable indicates a capability probe failed.
	ErrCapabilityUnavailable = errors.New("encode: capability unavailable")

	// ErrEncodingFailed indicates every configured attempt failed.
	ErrEncodingFailed = errors.New("encode: all encoding attempts failed")

	// ErrNoFrames indicates there was nothing to encode.
	ErrNoFrames = errors.New("encode: no frames to encode")
)

// Stage names the step of an attempt that failed.
type Stage string

const (
	StageProbe  Stage = "probe"
	StageEncode Stage = "encode"
)

// CapabilityError wraps a failure of one attempt.
type CapabilityError struct {
	Format  string
	Stage   Stage
	Wrapped error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("encode %s: %s: %v", e.Format, e.Stage, e.Wrapped)
}

func (e *CapabilityError) Unwrap() error {
	return e.Wrapped
}
