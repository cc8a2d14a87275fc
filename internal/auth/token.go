package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"movie-discovery-api/internal/config"
)

// ErrTokenConfig is returned when the signing key, issuer or audience is unset.
var ErrTokenConfig = errors.New("token issuer is not configured")

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// Claims are the identity claims carried by a bearer token. The user id is
// the standard subject claim.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer from the JWT settings.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	switch {
	case cfg.Key == "":
		return nil, fmt.Errorf("%w: signing key is empty", ErrTokenConfig)
	case cfg.Issuer == "":
		return nil, fmt.Errorf("%w: issuer is empty", ErrTokenConfig)
	case cfg.Audience == "":
		return nil, fmt.Errorf("%w: audience is empty", ErrTokenConfig)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{
		key:      []byte(cfg.Key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Issue creates a signed token for the user.
func (t *TokenIssuer) Issue(userID, username string) (string, error) {
	now := t.now()
	claims := &Claims{
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer, audience and lifetime and
// returns the token's claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
