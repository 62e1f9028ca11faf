// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in three layers:

 1. A .env file in the working directory, if present (godotenv)
 2. Environment variables with defaults (caarlos0/env)
 3. CLI flags

CLI flags take precedence over environment variables.

# Config Fields

  - Port: Server listen port (default: 3318)
  - StoreType: memory or sqlite (default: memory)
  - DatabaseURL: SQLite URL for the sqlite store (default: :memory:)
  - PublicURL: Base URL advertised by negotiate (default: derived per request)
  - SigningKey: HMAC key for negotiate access tokens (required)
  - TokenTTL: Access token lifetime (default: 1h)
  - BroadcastQueueSize: Pending broadcast triggers (default: 64)
  - SeedDemo: Insert sample polls at startup
  - LogFormat: text or json (default: text)

# CLI Flags

	-p            Server port
	-s            Store type
	-d            Database URL
	-public-url   Public base URL
	-signing-key  Token signing key
	-seed         Seed demo polls

# Environment Variables

	PORT                  → -p
	STORE_TYPE            → -s
	DATABASE_URL          → -d
	PUBLIC_URL            → -public-url
	NEGOTIATE_SIGNING_KEY → -signing-key
	SEED_DEMO             → -seed
	TOKEN_TTL
	BROADCAST_QUEUE_SIZE
	LOG_FORMAT

# Validation

ParseFlags returns an error if:

  - NEGOTIATE_SIGNING_KEY is missing
  - the store type is not memory or sqlite
  - the port, TTL, or queue size is out of range
*/
package cliparse
