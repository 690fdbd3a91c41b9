package auth

import "errors"

// AuthError is a user-facing authentication failure. Its reason is short,
// human-readable and safe to display directly.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// IsAuthError reports whether err is a user-facing auth failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// genericFailure masks unexpected internal errors; details are logged,
// never shown.
const genericFailure = "something went wrong, please try again"
