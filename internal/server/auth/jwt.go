// Package auth holds the session primitives: signed tokens, password
// hashing, token extraction from requests and the request identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload: the user's identity plus the
// registered sub/iat/exp claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string  `json:"id"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Name   *string `json:"name,omitempty"`
}

// TokenSigner issues and verifies HS256 session tokens with a shared secret.
// Tokens are self-contained; nothing is stored server-side.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenSigner(secret []byte, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for iat, exp and validation.
func (s *TokenSigner) WithClock(now func() time.Time) *TokenSigner {
	s.now = now
	return s
}

// TTL is the lifetime of issued tokens.
func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}

// Sign issues a token for id, valid for TTL from now.
func (s *TokenSigner) Sign(id Identity) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("empty signing secret")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: id.ID,
		Email:  id.Email,
		Role:   id.Role,
		Name:   id.Name,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature, algorithm and expiry and returns the identity the
// token carries. Every failure is common.ErrUnauthenticated.
func (s *TokenSigner) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, common.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrUnauthenticated
	}

	return Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role, Name: claims.Name}, nil
}
