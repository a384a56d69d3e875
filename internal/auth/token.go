// Package auth validates identity tokens issued by the external identity
// provider. The provider signs a JWT with a shared HMAC secret; this
// package verifies the signature and extracts the identity claims. No
// user records are touched here — tenant resolution happens in the
// service layer.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller as reported by the identity
// provider: a stable subject plus the current email and display name.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// TokenService verifies identity-provider JWTs
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService with the given shared secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

type identityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Sign mints a token for the given identity. The real provider issues
// tokens out of band; this is used by tests and local development.
func (s *TokenService) Sign(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// carries. Only HS256 tokens from the configured issuer are accepted.
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&identityClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
