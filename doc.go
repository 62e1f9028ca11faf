// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll is a small poll service: clients create polls, cast votes and
read results, and every change is pushed to subscribed clients over a
websocket as a pollsUpdated event carrying the full poll list.

# Starting the Server

A token signing key is the only required setting:

	NEGOTIATE_SIGNING_KEY=dev-secret go run .

Or with flags:

	go run . -p 3318 -signing-key dev-secret -seed

# Configuration

Required settings:

  - NEGOTIATE_SIGNING_KEY (-signing-key): HMAC key for negotiate tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORE_TYPE (-s): memory or sqlite (default: memory)
  - DATABASE_URL (-d): SQLite URL (default: :memory:)
  - PUBLIC_URL (-public-url): Base URL advertised by negotiate
  - SEED_DEMO (-seed): Insert sample polls at startup
  - TOKEN_TTL, BROADCAST_QUEUE_SIZE, LOG_FORMAT

A .env file in the working directory is loaded first.

# Architecture

The server builds one store and one notifier and injects them into the router:

  - store: PollStore with in-memory and SQLite implementations
  - notifier: broadcast worker, negotiate and websocket subscribers
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Access token issuance and validation
  - db: SQLite connection and schema
  - cliparse: Configuration parsing

The broadcast worker and HTTP server run under one errgroup and stop
together on SIGINT or SIGTERM.

See package documentation for each component.
*/
package main
