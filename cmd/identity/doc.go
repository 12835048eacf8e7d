// Package identity is the credential boundary for leadboard.
//
// It owns the users table and verifies principal secrets against stored
// bcrypt hashes. The session subsystem consumes it through the narrow
// CredentialVerifier capability; nothing here knows about tokens.
package identity
