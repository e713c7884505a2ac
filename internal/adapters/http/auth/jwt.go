// Package auth verifies participant identity from HS256 JWTs and exposes the
// resulting claims to HTTP handlers.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped on every token Sign produces.
const Issuer = "predictor"

// Sentinel kinds for auth errors.
var (
	ErrMissingToken  = errors.New("missing token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrForbidden     = errors.New("admin access required")
)

// Claims identifies a participant.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`

	jwt.RegisteredClaims
}

// JWT signs and verifies tokens with a shared secret.
type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
}

// Sign returns a token for claims and its expiry. Missing registered claims
// are filled in from TokenTTL.
func (j JWT) Sign(claims Claims) (token string, expiresAt time.Time, err error) {
	if len(j.Secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := time.Now().UTC()
	if claims.Subject == "" {
		claims.Subject = claims.UserID
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now.Add(-5 * time.Second))
	}
	if claims.ExpiresAt == nil {
		expiresAt = now.Add(j.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	} else {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.Issuer == "" {
		claims.Issuer = Issuer
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, expiresAt, nil
}

// Verify parses token and checks its signature, expiry and user id.
func (j JWT) Verify(token string) (Claims, error) {
	if len(j.Secret) == 0 {
		return Claims{}, ErrMissingSecret
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if c.UserID == "" {
		return Claims{}, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}
	return *c, nil
}
