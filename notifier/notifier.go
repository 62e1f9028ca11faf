// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/models"
)

const (
	// HubName is the audience of every access token
	HubName = "polls"
	// HubPath is where subscribers open their websocket
	HubPath = "/client/hubs/polls"
)

const (
	defaultQueueSize        = 64
	defaultSubscriberBuffer = 16
	defaultWriteTimeout     = 10 * time.Second
)

// Snapshotter supplies the poll list pushed to subscribers.
type Snapshotter interface {
	GetAllPolls(ctx context.Context) ([]models.Poll, error)
}

type Config struct {
	// PublicURL is the externally visible base URL, e.g. https://polls.example.com.
	// When empty the hub URL is derived from each negotiate request.
	PublicURL        string
	Tokens           auth.TokenConfig
	QueueSize        int
	SubscriberBuffer int
	WriteTimeout     time.Duration
	Logger           *slog.Logger
}

// Notifier fans the current poll list out to websocket subscribers.
//
// Notify only enqueues a trigger; Run owns the queue and performs delivery,
// so request handlers never wait on a subscriber.
type Notifier struct {
	polls  Snapshotter
	cfg    Config
	logger *slog.Logger
	queue  chan struct{}

	// sendMu orders snapshot building with delivery, so a subscriber
	// never receives an older list after a newer one
	sendMu sync.Mutex

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	stopped     chan struct{}
}

func New(polls Snapshotter, cfg Config) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = defaultSubscriberBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		polls:       polls,
		cfg:         cfg,
		logger:      logger,
		queue:       make(chan struct{}, cfg.QueueSize),
		subscribers: make(map[*subscriber]struct{}),
		stopped:     make(chan struct{}),
	}
}

// Notify requests a broadcast of the current poll list. It never blocks:
// when the queue is full the trigger is dropped, since a queued broadcast
// will already read the newer state.
func (n *Notifier) Notify() {
	select {
	case n.queue <- struct{}{}:
	default:
		n.logger.Warn("broadcast queue full, dropping trigger", "queue_size", cap(n.queue))
	}
}

// Run delivers queued broadcasts until ctx is cancelled, then disconnects
// every subscriber.
func (n *Notifier) Run(ctx context.Context) error {
	n.logger.Info("broadcast worker started")
	defer n.closeAll()

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("broadcast worker stopped")
			return nil
		case <-n.queue:
			n.broadcast(ctx)
		}
	}
}

// broadcast sends one pollsUpdated frame to every subscriber.
// Failures are logged and never retried.
func (n *Notifier) broadcast(ctx context.Context) {
	n.sendMu.Lock()
	defer n.sendMu.Unlock()

	frame, err := n.snapshotFrame(ctx)
	if err != nil {
		n.logger.Error("failed to build broadcast", "error", err)
		return
	}

	n.mu.RLock()
	subs := make([]*subscriber, 0, len(n.subscribers))
	for sub := range n.subscribers {
		subs = append(subs, sub)
	}
	n.mu.RUnlock()

	dropped := 0
	for _, sub := range subs {
		if !sub.enqueue(frame) {
			dropped++
			n.logger.Warn("dropping broadcast for slow subscriber", "connection_id", sub.id)
		}
	}

	n.logger.Debug("broadcast delivered", "subscribers", len(subs), "dropped", dropped)
}

// attach registers sub and queues the current poll list as its first frame.
// It reports false once Run has stopped; sub is closed in that case.
func (n *Notifier) attach(ctx context.Context, sub *subscriber) bool {
	n.sendMu.Lock()
	defer n.sendMu.Unlock()

	if !n.add(sub) {
		sub.close()
		return false
	}

	frame, err := n.snapshotFrame(ctx)
	if err != nil {
		n.logger.Error("failed to build initial snapshot", "connection_id", sub.id, "error", err)
		return true
	}
	sub.enqueue(frame)
	return true
}

func (n *Notifier) snapshotFrame(ctx context.Context) ([]byte, error) {
	polls, err := n.polls.GetAllPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load polls: %w", err)
	}
	frame, err := json.Marshal(models.BroadcastMessage{
		Type:      models.MessageTypeInvocation,
		Target:    models.EventPollsUpdated,
		Arguments: []any{polls},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode broadcast: %w", err)
	}
	return frame, nil
}

// Negotiate issues the connection descriptor a client uses to subscribe
func (n *Notifier) Negotiate(r *http.Request) (models.NegotiateResponse, error) {
	connectionID := auth.NewConnectionID()
	token, _, err := auth.IssueAccessToken(n.cfg.Tokens, HubName, connectionID)
	if err != nil {
		return models.NegotiateResponse{}, err
	}
	return models.NegotiateResponse{
		URL:         n.hubURL(r),
		AccessToken: token,
	}, nil
}

func (n *Notifier) hubURL(r *http.Request) string {
	if base := strings.TrimRight(n.cfg.PublicURL, "/"); base != "" {
		if strings.HasPrefix(base, "http") {
			base = "ws" + strings.TrimPrefix(base, "http")
		}
		return base + HubPath
	}

	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + HubPath
}

// Subscribers returns the number of connected subscribers
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// add reports false when the notifier has already shut down
func (n *Notifier) add(sub *subscriber) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	select {
	case <-n.stopped:
		return false
	default:
	}
	n.subscribers[sub] = struct{}{}
	return true
}

func (n *Notifier) remove(sub *subscriber) {
	n.mu.Lock()
	delete(n.subscribers, sub)
	n.mu.Unlock()
	sub.close()
}

func (n *Notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	select {
	case <-n.stopped:
	default:
		close(n.stopped)
	}
	for sub := range n.subscribers {
		sub.close()
		delete(n.subscribers, sub)
	}
}
