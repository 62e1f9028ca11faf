// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notifier pushes the current poll list to real-time subscribers.

# Broadcasts

Handlers call Notify after every successful mutation. Notify never blocks;
it drops the trigger when the queue is full, since a pending broadcast
already reads the latest state.

	hub := notifier.New(polls, notifier.Config{Tokens: tokens})
	go hub.Run(ctx)
	hub.Notify()

Run is the only consumer of the queue. For each trigger it reads
GetAllPolls, encodes one frame and hands it to every subscriber's
outbox without waiting. A subscriber whose outbox is full misses that
frame.

# Wire Format

Every frame is a JSON text message:

	{"type":1,"target":"pollsUpdated","arguments":[[{"poll_id":"...","question":"...","options":[...],"votes":[...]}]]}

# Subscribing

	POST /negotiate          → {"url": "ws://host/client/hubs/polls", "accessToken": "..."}
	GET  /client/hubs/polls  → websocket (access_token query or Bearer header)

A new subscriber first receives the current poll list, then every
broadcast until it disconnects or Run stops.
*/
package notifier
