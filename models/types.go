// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Real-time event names
const (
	EventPollsUpdated = "pollsUpdated"
)

// Request types

// PollID is optional; when empty the server assigns one.
type CreatePollRequest struct {
	PollID   string   `json:"poll_id,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// OptionIndex is a pointer so a missing field can be told apart from 0.
type VotePollRequest struct {
	PollID      string `json:"poll_id"`
	OptionIndex *int   `json:"option_index"`
}

// Response types

type NegotiateResponse struct {
	URL         string `json:"url"`
	AccessToken string `json:"accessToken"`
}

// Domain types

type Poll struct {
	ID       string   `json:"poll_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Votes    []int    `json:"votes"`
}

// Clone returns a deep copy that shares no slices with p.
func (p Poll) Clone() Poll {
	return Poll{
		ID:       p.ID,
		Question: p.Question,
		Options:  append([]string(nil), p.Options...),
		Votes:    append([]int(nil), p.Votes...),
	}
}

// Real-time types

// BroadcastMessage is a single invocation frame pushed to subscribers.
type BroadcastMessage struct {
	Type      int    `json:"type"`
	Target    string `json:"target"`
	Arguments []any  `json:"arguments"`
}

// Invocation frame type
const MessageTypeInvocation = 1

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
