package animation

import "errors"

var (
	// ErrDisplayUnavailable indicates the live sink could not be opened or failed.
	ErrDisplayUnavailable = errors.New("animation: display unavailable")

	// ErrSealed indicates an append after the live loop finished.
	ErrSealed = errors.New("animation: state is sealed")
)
