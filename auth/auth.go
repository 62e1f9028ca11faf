// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid access token")
	ErrExpiredToken  = errors.New("access token expired")
	ErrNotConfigured = errors.New("token signing is not configured")
)

// Issuer is the iss claim on every access token
const Issuer = "livepoll"

// TokenConfig controls how access tokens are signed and verified.
type TokenConfig struct {
	Key []byte
	TTL time.Duration
	Now func() time.Time
}

// AccessClaims is what a verified access token says about its holder.
type AccessClaims struct {
	ConnectionID string
	Hub          string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// NewConnectionID creates a random identifier for a real-time subscriber
func NewConnectionID() string {
	return uuid.NewString()
}

// IssueAccessToken signs an HS256 token granting connectionID access to hub
func IssueAccessToken(cfg TokenConfig, hub, connectionID string) (string, time.Time, error) {
	if len(cfg.Key) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	now := cfg.now()
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   connectionID,
		Audience:  jwt.ClaimStrings{hub},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	})
	signed, err := token.SignedString(cfg.Key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies signature, issuer, audience, and expiry
func ValidateAccessToken(cfg TokenConfig, token, hub string) (AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	if len(cfg.Key) == 0 {
		return AccessClaims{}, ErrNotConfigured
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(hub),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, ErrExpiredToken
		}
		return AccessClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return AccessClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	out := AccessClaims{
		ConnectionID: claims.Subject,
		Hub:          hub,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (c TokenConfig) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
