// Package auth provides password hashing, session-token minting and the
// middleware that turns a session cookie into a request principal.
//
// SESSION FLOW:
//  1. POST /login verifies the password and mints a JWT for the user id
//  2. The token goes back in the body and in the "authorization" cookie
//     as "Bearer <jwt>"
//  3. RequireAuth reads the cookie on protected routes, verifies the
//     signature, loads the user and stores a model.Principal in the context
//
// The token carries only {"userId": n} plus registered claims. It is
// stateless: nothing is stored server-side and there is no revocation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "community-board"

var (
	// ErrTokenExpired is returned by Validate for a well-signed token whose
	// exp claim has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid covers every other failure: bad signature, malformed
	// token, wrong algorithm or issuer, missing user id.
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// TokenService handles JWT creation and validation with an HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. A ttl of zero mints tokens
// without an exp claim; they stay valid until the secret changes.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl < 0 {
		return nil, errors.New("auth: token ttl must not be negative")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the configured lifetime; zero means no expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload. UserID is serialized as "userId".
type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Generate signs a token for userID using the configured ttl.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.sign(userID, s.ttl)
}

// GenerateWithDuration signs a token expiring after d, regardless of the
// configured ttl. A negative d produces an already expired token, which is
// what the tests use it for.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	if d == 0 {
		return "", errors.New("auth: duration must be non-zero")
	}
	return s.sign(userID, d)
}

func (s *TokenService) sign(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       xid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   issuer,
		},
	}
	if d != 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(d))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT and returns its user id.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid for our secret
//   - Algorithm is HS256 (rejects "none" and RS/HS confusion)
//   - Issuer is "community-board"
//   - exp, when present, is in the future
//
// An expired token yields ErrTokenExpired; anything else ErrTokenInvalid.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.UserID <= 0 {
		return 0, ErrTokenInvalid
	}
	return c.UserID, nil
}
