package convert

import "errors"

// Caller mistakes, raised before any model invocation happens. A bad request
// must never cost a Bedrock call.
var (
	ErrEmptyWorkoutText = errors.New("workout text is empty")
	ErrUnsupportedSport = errors.New("unsupported sport")
)

// InvocationError wraps a failed remote model call (network, credentials,
// quota, or service fault). It is the only error kind plausibly worth
// retrying; the converter itself never retries.
type InvocationError struct {
	Err error
}

func (e *InvocationError) Error() string {
	return "model invocation failed: " + e.Err.Error()
}

func (e *InvocationError) Unwrap() error { return e.Err }

// MalformedResponseError means the model answered but the answer could not be
// interpreted as a complete workout. Partial workouts are never returned.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return "malformed model response: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed model response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
