// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the authoritative collection of polls.

# Implementations

Two PollStore implementations share the same behavior:

  - Memory: a map plus creation-order slice behind one RWMutex
  - SQL: SQLite tables from package db, one transaction per operation

Both return copies, so nothing a caller does to a returned Poll reaches
stored state.

# Identifiers

IDGenerator derives IDs from the wall clock in milliseconds and never
repeats a value: if the clock has not advanced, the previous value plus
one is used. Stores also skip any generated ID already taken by a
caller-supplied one.

# Errors

Operations return wrapped sentinels; test with errors.Is:

  - ErrValidation: bad question, options, poll_id, or option index
  - ErrNotFound: unknown poll ID
  - ErrConflict: caller-supplied poll ID already exists
*/
package store
