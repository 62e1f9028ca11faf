// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(polls, hub)

The store and notifier are built once in main and shared by every handler.

# Endpoints

Health:

	GET /health

Polls:

	POST /createPoll         - Create poll (201)
	POST /votePoll           - Vote for one option
	GET  /getPoll?poll_id=   - Single poll
	GET  /getAllPolls        - Every poll in creation order

Real-time:

	POST /negotiate          - Issue {url, accessToken}
	GET  /client/hubs/polls  - Websocket stream of pollsUpdated events

Every route except /health and / is wrapped with middleware.WithLogging.
*/
package router
