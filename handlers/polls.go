// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// ChangeNotifier is told about every successful mutation
type ChangeNotifier interface {
	Notify()
}

// Negotiator issues real-time connection descriptors
type Negotiator interface {
	Negotiate(r *http.Request) (models.NegotiateResponse, error)
}

type PollHandler struct {
	polls    store.PollStore
	notifier ChangeNotifier
	hub      Negotiator
}

func NewPollHandler(polls store.PollStore, notifier ChangeNotifier, hub Negotiator) *PollHandler {
	return &PollHandler{polls: polls, notifier: notifier, hub: hub}
}

// CreatePoll handles POST /createPoll
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var (
		poll models.Poll
		err  error
	)
	if req.PollID != "" {
		poll, err = h.polls.CreatePollWithID(r.Context(), req.PollID, req.Question, req.Options)
	} else {
		poll, err = h.polls.CreatePoll(r.Context(), req.Question, req.Options)
	}
	if err != nil {
		h.writeStoreError(w, err, "Invalid input")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))
	h.notifier.Notify()

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// votePollBody is the wire form of models.VotePollRequest. option_index
// stays raw so a malformed index is judged after the poll lookup.
type votePollBody struct {
	PollID      string          `json:"poll_id"`
	OptionIndex json.RawMessage `json:"option_index"`
}

// VotePoll handles POST /votePoll
func (h *PollHandler) VotePoll(w http.ResponseWriter, r *http.Request) {
	var req votePollBody
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Missing or non-integer indexes are out of range; the store reports unknown polls first
	optionIndex := parseOptionIndex(req.OptionIndex)

	poll, err := h.polls.VotePoll(r.Context(), req.PollID, optionIndex)
	if err != nil {
		h.writeStoreError(w, err, "Invalid option index")
		return
	}

	slog.Info("vote recorded", "poll_id", poll.ID, "option_index", optionIndex)
	h.notifier.Notify()

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// parseOptionIndex returns -1 unless raw is a JSON integer
func parseOptionIndex(raw json.RawMessage) int {
	var idx int
	if len(raw) == 0 || json.Unmarshal(raw, &idx) != nil {
		return -1
	}
	// null decodes without error and leaves idx untouched
	if string(raw) == "null" {
		return -1
	}
	return idx
}

// GetPoll handles GET /getPoll?poll_id=
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.GetPoll(r.Context(), r.URL.Query().Get("poll_id"))
	if err != nil {
		h.writeStoreError(w, err, "Invalid input")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// GetAllPolls handles GET /getAllPolls
func (h *PollHandler) GetAllPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.GetAllPolls(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "Invalid input")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// Negotiate handles POST /negotiate
func (h *PollHandler) Negotiate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.hub.Negotiate(r)
	if err != nil {
		slog.Error("failed to negotiate connection", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// writeStoreError maps store errors to responses.
// invalidMessage is used for validation failures.
func (h *PollHandler) writeStoreError(w http.ResponseWriter, err error, invalidMessage string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll ID already exists")
	case errors.Is(err, store.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, invalidMessage)
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
