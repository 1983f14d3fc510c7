package animation

import (
	"time"

	"github.com/san-kum/weatherwave/internal/render"
)

// StopReason records why the live loop ended.
type StopReason string

const (
	StopNone          StopReason = ""
	StopCompleted     StopReason = "completed"
	StopCanceled      StopReason = "canceled"
	StopDisplayClosed StopReason = "display-closed"
	StopDisplayFailed StopReason = "display-failed"
)

// State is the append-only frame buffer of one run.
type State struct {
	frames   []render.Frame
	sealed   bool
	reason   StopReason
	started  time.Time
	finished time.Time
}

func NewState(capacity int) *State {
	if capacity < 0 {
		capacity = 0
	}
	return &State{frames: make([]render.Frame, 0, capacity)}
}

// Append adds a frame. It fails once the state is sealed.
func (s *State) Append(f render.Frame) error {
	if s.sealed {
		return ErrSealed
	}
	s.frames = append(s.frames, f)
	return nil
}

// Seal freezes the buffer and records why the loop ended.
func (s *State) Seal(reason StopReason, at time.Time) {
	if s.sealed {
		return
	}
	s.sealed = true
	s.reason = reason
	s.finished = at
}

func (s *State) Sealed() bool           { return s.sealed }
func (s *State) StopReason() StopReason { return s.reason }
func (s *State) Started() time.Time     { return s.started }
func (s *State) Finished() time.Time    { return s.finished }
func (s *State) Len() int               { return len(s.frames) }

// Frame returns the i-th buffered frame.
func (s *State) Frame(i int) render.Frame {
	return s.frames[i]
}

// Frames returns a copy of the buffer.
func (s *State) Frames() []render.Frame {
	out := make([]render.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}
