// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/notifier"
	"github.com/danielhkuo/livepoll/store"
)

// TestSigningKey signs access tokens in tests
const TestSigningKey = "test-signing-key"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		StoreType:          cliparse.StoreMemory,
		DatabaseURL:        db.DefaultURL,
		SigningKey:         TestSigningKey,
		TokenTTL:           time.Hour,
		BroadcastQueueSize: 64,
		LogFormat:          "text",
	}
}

// NewTestStore returns an empty store of the given type.
// SQLite stores use a private in-memory database closed at test cleanup.
func NewTestStore(t *testing.T, storeType string) store.PollStore {
	t.Helper()

	switch storeType {
	case cliparse.StoreSQLite:
		conn, err := db.Open(db.DefaultURL)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		t.Cleanup(func() { conn.Close() })
		return store.NewSQL(conn, nil)
	default:
		return store.NewMemory(nil)
	}
}

// NewTestNotifier returns a notifier over polls whose worker runs until
// the test finishes. Logs are discarded.
func NewTestNotifier(t *testing.T, polls notifier.Snapshotter) *notifier.Notifier {
	t.Helper()

	n := notifier.New(polls, notifier.Config{
		Tokens: auth.TokenConfig{Key: []byte(TestSigningKey), TTL: time.Hour},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		n.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return n
}

// CreateTestPoll creates a poll directly in the store
func CreateTestPoll(t *testing.T, polls store.PollStore, question string, options ...string) models.Poll {
	t.Helper()

	poll, err := polls.CreatePoll(context.Background(), question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
