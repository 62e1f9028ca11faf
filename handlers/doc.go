// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

PollHandler serves every poll endpoint. It is created with the store, a
ChangeNotifier told about mutations, and a Negotiator for subscriptions:

	pollHandler := handlers.NewPollHandler(polls, hub, hub)

# Endpoints

	POST /createPoll       → CreatePoll (201, returns the poll)
	POST /votePoll         → VotePoll (200, returns the updated poll)
	GET  /getPoll?poll_id= → GetPoll
	GET  /getAllPolls      → GetAllPolls (creation order)
	POST /negotiate        → Negotiate

A broadcast is requested only after a create or vote succeeds.

# Errors

Store errors are mapped with errors.Is:

	store.ErrValidation → 400 "Invalid input" / "Invalid option index"
	store.ErrConflict   → 400 "Poll ID already exists"
	store.ErrNotFound   → 404 "Poll not found"
	anything else       → 500, cause logged
*/
package handlers
