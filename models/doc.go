// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options, optional poll_id
  - VotePollRequest: poll_id, option_index

# Response Types

Types for JSON responses:

  - Poll: returned by every poll endpoint
  - NegotiateResponse: url, accessToken
  - ErrorResponse: error, message

# Domain Types

Poll is the only domain type. Options and Votes are index-aligned:
Votes[i] counts ballots for Options[i].

	{
	  "poll_id": "1735689600000",
	  "question": "Best Season?",
	  "options": ["Spring", "Summer"],
	  "votes": [0, 1]
	}

Poll.Clone returns a copy that shares no backing arrays, so callers can
hand polls across goroutines without aliasing store state.

# Real-time Types

BroadcastMessage is the frame pushed over the websocket channel:

	{"type":1,"target":"pollsUpdated","arguments":[[{...poll...}]]}
*/
package models
