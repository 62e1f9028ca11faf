// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides access token issuance and validation for real-time
subscribers.

# Access Tokens

Tokens are HS256 JWTs signed with the configured key:

	cfg := auth.TokenConfig{Key: []byte(secret), TTL: time.Hour}
	token, expiresAt, err := auth.IssueAccessToken(cfg, "polls", connectionID)

Claims carried on every token:

  - iss: "livepoll"
  - aud: the hub name
  - sub: the connection ID
  - iat, nbf, exp
  - jti: a random UUID

ValidateAccessToken checks the signature, algorithm, issuer, audience and
expiry, and returns the connection ID:

	claims, err := auth.ValidateAccessToken(cfg, token, "polls")

Expired tokens return ErrExpiredToken. Every other failure wraps
ErrInvalidToken. A missing key returns ErrNotConfigured.

# Connection IDs

	id := auth.NewConnectionID()  // random UUID string
*/
package auth
