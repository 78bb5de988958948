package core

import "fmt"

// AuthError reports an invalid, expired or forbidden credential at transport
// connect time. It is fatal for the session and never retried automatically.
type AuthError struct {
	Endpoint string
	Reason   string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected by %s: %s", e.Endpoint, e.Reason)
}

// TransportError reports a connection-level failure: dial failure, dropped
// connection, timeout or malformed frame. Callers retry at most once per
// turn with a fresh session before escalating to a SkillError.
type TransportError struct {
	Endpoint string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed for %s: %v", e.Op, e.Endpoint, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// SkillError reports that a remote skill failed the forwarded turn, either
// by returning a non-empty end-of-conversation code or by being unreachable
// after retry. The raw detail is for telemetry only; end users receive a
// generic apology instead.
type SkillError struct {
	SkillID string
	Code    string
	Err     error
}

// Error implements the error interface.
func (e *SkillError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("skill %s reported failure code %q", e.SkillID, e.Code)
	}
	return fmt.Sprintf("skill %s failed: %v", e.SkillID, e.Err)
}

// Unwrap exposes the underlying cause, if any.
func (e *SkillError) Unwrap() error { return e.Err }
