package identity

import "errors"

var (
	// ErrInvalidCredentials is returned when the username is unknown or the
	// secret does not match. The two cases are deliberately
	// indistinguishable to callers.
	ErrInvalidCredentials = errors.New("wrong or invalid credentials")

	// ErrUserNotFound is returned by lookups for a missing username.
	ErrUserNotFound = errors.New("user not found")
)
