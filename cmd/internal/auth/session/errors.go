package session

import "errors"

var (
	// ErrInvalidToken is returned when a token's signature does not verify
	// or the token is malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenNotRecognized is returned when a presented refresh token has
	// no record in the store. Signature validity alone is not sufficient.
	ErrTokenNotRecognized = errors.New("refresh token not recognized")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid session config")
)
