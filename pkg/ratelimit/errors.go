package ratelimit

import (
	"errors"
	"fmt"
)

// ErrTooManyRequests is the sentinel all rate-limit violations match via
// errors.Is, so callers can branch without inspecting the violation kind.
var ErrTooManyRequests = errors.New("rate limit exceeded")

// Violation is the structured denial raised by Enforce. It carries enough
// state for the caller to build a precise throttling response without
// re-deriving anything from the limiter.
type Violation struct {
	ClientID     string
	Limit        LimitType
	CurrentCount int64
	MaxAllowed   int64
	ResetSeconds int64
	Message      string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s (client %s, %d/%d, retry in %ds)",
		v.Limit, v.Message, v.ClientID, v.CurrentCount, v.MaxAllowed, v.ResetSeconds)
}

// Is reports whether target is ErrTooManyRequests, making every violation
// match the sentinel.
func (v *Violation) Is(target error) bool {
	return target == ErrTooManyRequests
}

// newViolation builds a Violation from a denied Status.
func newViolation(clientID string, st Status) *Violation {
	return &Violation{
		ClientID:     clientID,
		Limit:        st.Limit,
		CurrentCount: st.CurrentCount,
		MaxAllowed:   st.MaxAllowed,
		ResetSeconds: st.ResetSeconds,
		Message:      st.Message,
	}
}
