// Package animation sequences frame production for a run.
//
// A [Driver] owns a [State] for the duration of the live loop:
//
//	for t in 0..n-1:
//	    stop requested?  -> leave the loop
//	    frame := pipeline.Frame(t)
//	    sink.Show(frame)
//	    state.Append(frame)
//	    wait for the next tick
//
// The State is sealed when the loop ends, whatever the reason, and from then on is
// read-only. Partial runs are valid input for encoding.
//
// # Thread Safety
//
// The loop runs on the caller's goroutine. The only suspension point is the tick
// wait, which also wakes on cancellation.
package animation
