package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks principal secrets against stored bcrypt hashes.
// It satisfies the session service's CredentialVerifier capability.
type Verifier struct {
	store Store
}

// NewVerifier constructs a Verifier over the given store.
func NewVerifier(store Store) *Verifier {
	return &Verifier{store: store}
}

// VerifyCredentials returns the user's ID when the secret matches.
// Unknown usernames and wrong secrets both yield ErrInvalidCredentials.
func (v *Verifier) VerifyCredentials(ctx context.Context, username, password string) (string, error) {
	u, err := v.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return u.ID, nil
}

// HashPassword returns a bcrypt hash of the plain secret.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("identity: hash password: %w", err)
	}
	return string(hash), nil
}
