package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type tags embedded in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the identity envelope embedded in signed tokens.
type Claims struct {
	UserID    string
	Username  string
	TokenType string
	ExpiresAt time.Time
}

// Issuer creates and cryptographically verifies access and refresh tokens.
//
// All methods are pure: no I/O, no store access. Verification of a refresh
// token's signature is necessary but not sufficient for refresh-token
// validity; the Service additionally requires store presence.
type Issuer interface {
	IssueAccess(userID, username string) (string, error)
	IssueRefresh(userID, username string) (string, error)
	VerifyAccess(token string) (Claims, error)
	VerifyRefresh(token string) (Claims, error)
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"type"`
}

type hmacIssuer struct {
	accessKey  []byte
	accessTTL  time.Duration
	refreshKey []byte
	refreshTTL time.Duration
}

// NewHMACIssuer builds an Issuer signing HS256 JWTs with separate
// shared secrets and TTLs for access and refresh tokens.
func NewHMACIssuer(cfg Config) (Issuer, error) {
	if len(cfg.AccessTokenKey) == 0 || len(cfg.RefreshTokenKey) == 0 {
		return nil, ErrConfig
	}
	if cfg.AccessTokenAge <= 0 || cfg.RefreshTokenAge <= 0 {
		return nil, ErrConfig
	}

	return &hmacIssuer{
		accessKey:  cfg.AccessTokenKey,
		accessTTL:  cfg.AccessTokenAge,
		refreshKey: cfg.RefreshTokenKey,
		refreshTTL: cfg.RefreshTokenAge,
	}, nil
}

func (i *hmacIssuer) IssueAccess(userID, username string) (string, error) {
	return sign(userID, username, TokenTypeAccess, i.accessTTL, i.accessKey)
}

func (i *hmacIssuer) IssueRefresh(userID, username string) (string, error) {
	return sign(userID, username, TokenTypeRefresh, i.refreshTTL, i.refreshKey)
}

func (i *hmacIssuer) VerifyAccess(token string) (Claims, error) {
	return verify(token, TokenTypeAccess, i.accessKey)
}

func (i *hmacIssuer) VerifyRefresh(token string) (Claims, error) {
	return verify(token, TokenTypeRefresh, i.refreshKey)
}

func sign(userID, username, typ string, ttl time.Duration, key []byte) (string, error) {
	now := time.Now().UTC()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  username,
		TokenType: typ,
	})

	return tok.SignedString(key)
}

func verify(token, wantType string, key []byte) (Claims, error) {
	var claims jwtClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.TokenType != wantType || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return Claims{
		UserID:    claims.Subject,
		Username:  claims.Username,
		TokenType: claims.TokenType,
		ExpiresAt: exp,
	}, nil
}
