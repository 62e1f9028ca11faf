// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/notifier"
	"github.com/danielhkuo/livepoll/store"
)

func NewRouter(polls store.PollStore, hub *notifier.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(polls, hub, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll operations
	mux.HandleFunc("POST /createPoll", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("POST /votePoll", middleware.WithLogging(pollHandler.VotePoll))
	mux.HandleFunc("GET /getPoll", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /getAllPolls", middleware.WithLogging(pollHandler.GetAllPolls))

	// Real-time updates
	mux.HandleFunc("POST /negotiate", middleware.WithLogging(pollHandler.Negotiate))
	mux.HandleFunc("GET "+notifier.HubPath, middleware.WithLogging(hub.ServeWS))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
