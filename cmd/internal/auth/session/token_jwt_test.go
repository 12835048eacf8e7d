package session

import (
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AccessTokenKey = []byte("access-test-key")
	cfg.RefreshTokenKey = []byte("refresh-test-key")
	return cfg
}

func TestHMACIssuer_IssueAndVerifyAccess(t *testing.T) {
	t.Parallel()

	issuer, err := NewHMACIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	tok, err := issuer.IssueAccess("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := issuer.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != "user-123" || claims.Username != "alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("expected access type, got %q", claims.TokenType)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %v", claims.ExpiresAt)
	}
}

func TestHMACIssuer_RefreshTokenRejectedAsAccess(t *testing.T) {
	t.Parallel()

	issuer, err := NewHMACIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	refresh, err := issuer.IssueRefresh("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACIssuer_VerifyRefresh_Expired(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RefreshTokenAge = -1 * time.Second

	// Constructor rejects non-positive TTLs, so sign directly.
	tok, err := sign("user-123", "alice", TokenTypeRefresh, cfg.RefreshTokenAge, cfg.RefreshTokenKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	issuer, err := NewHMACIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	if _, err := issuer.VerifyRefresh(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACIssuer_VerifyRefresh_WrongKey(t *testing.T) {
	t.Parallel()

	issuer, err := NewHMACIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	other := testConfig()
	other.RefreshTokenKey = []byte("a-different-key")
	otherIssuer, err := NewHMACIssuer(other)
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	tok, err := otherIssuer.IssueRefresh("user-123", "alice")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := issuer.VerifyRefresh(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACIssuer_VerifyRefresh_Malformed(t *testing.T) {
	t.Parallel()

	issuer, err := NewHMACIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewHMACIssuer: %v", err)
	}

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.VerifyRefresh(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
