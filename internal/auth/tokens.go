// Package auth issues and verifies bearer tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"formcount/internal/core"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 8 * time.Hour

// Claims carries the caller identity inside a token.
type Claims struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Constituency int64  `json:"constituency"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a token service; ttl <= 0 selects DefaultTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the identity and returns it with its expiry.
func (t *Tokens) Issue(id core.Identity) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		ID:           id.ID,
		Username:     id.Username,
		Role:         id.Role,
		Constituency: id.Constituency,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its identity. Any failure wraps
// core.ErrUnauthenticated.
func (t *Tokens) Parse(token string) (core.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return core.Identity{}, fmt.Errorf("%w: %w", core.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return core.Identity{}, core.ErrUnauthenticated
	}
	if claims.ID == 0 {
		return core.Identity{}, fmt.Errorf("%w: %w", core.ErrUnauthenticated, errors.New("token without id"))
	}
	return core.Identity{
		ID:           claims.ID,
		Username:     claims.Username,
		Role:         claims.Role,
		Constituency: claims.Constituency,
	}, nil
}
