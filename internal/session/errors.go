package session

import "errors"

// AuthError is a credential exchange that succeeded at the transport level
// but produced no usable session.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Reason
}

var (
	ErrMissingAccessToken = &AuthError{Reason: "missing access token"}
	ErrEmptyCredentials   = &AuthError{Reason: "username and password are required"}

	errNoToken = errors.New("no stored token")
)
