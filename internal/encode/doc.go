// Package encode persists a finished animation, trying a primary format and
// then a fallback.
//
// The [Encoder] is a small state machine:
//
//	Idle -> AttemptingPrimary -> Done
//	                          -> AttemptingFallback -> Done
//	                                                -> Failed
//
// Each attempt probes its [Capability] before encoding. A failed probe or a failed
// encode both move the machine to the next state. Running out of attempts is
// reported through [Result.Failed] and [ErrEncodingFailed]; it never affects the
// frames being encoded.
package encode
