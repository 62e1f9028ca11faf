// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the SQLite database backing the SQL poll store.

# Opening

Open connects through the pure-Go modernc.org/sqlite driver, pins the pool
to a single connection, and creates the schema:

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

The default URL is ":memory:", so nothing survives a restart.

# Tables

  - poll: One row per poll; seq preserves creation order
  - poll_option: Label and vote count per (poll_id, idx)

# Relationships

	poll 1──* poll_option

CreateSchema is safe to call multiple times - uses IF NOT EXISTS.
*/
package db
