// Package session implements leadboard's session and token lifecycle.
//
// It issues short-lived access tokens and long-lived refresh tokens as
// HS256-signed JWTs, persists refresh tokens by value in Postgres, and
// defines the login/refresh/logout state machine including lazy sweeping
// of expired records and revocation of tokens that fail verification.
//
// Access tokens are never persisted: once signed they are honored until
// their embedded expiry. Refresh-token validity requires both a valid
// signature and the token's presence in the store.
//
// Transport (cookies, bearer headers) is intentionally out of scope here.
package session
