// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	polls := testutil.NewTestStore(t, cliparse.StoreMemory)
	return NewRouter(polls, testutil.NewTestNotifier(t, polls))
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "livepoll API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// Routes respond with something other than the mux's 404/405
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/createPoll"},
		{"POST", "/votePoll"},
		{"GET", "/getPoll?poll_id=x"},
		{"GET", "/getAllPolls"},
		{"POST", "/negotiate"},
		{"GET", "/client/hubs/polls"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString("{}"))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405", tc.method, tc.path)
			}
			// getPoll legitimately answers 404 with a JSON body
			if w.Code == http.StatusNotFound && w.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Route %s %s not registered", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/createPoll"},
		{"GET", "/votePoll"},
		{"POST", "/getPoll"},
		{"POST", "/getAllPolls"},
		{"GET", "/negotiate"},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestUnknownPath(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/polls", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestHubRequiresToken(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	for _, token := range []string{"", "not-a-jwt"} {
		resp, err := http.Get(server.URL + "/client/hubs/polls?access_token=" + url.QueryEscape(token))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: expected 401, got %d", token, resp.StatusCode)
		}
	}
}

type pollsUpdatedFrame struct {
	Type      int             `json:"type"`
	Target    string          `json:"target"`
	Arguments [][]models.Poll `json:"arguments"`
}

func readFrame(t *testing.T, conn *websocket.Conn) pollsUpdatedFrame {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var raw string
	if err := websocket.Message.Receive(conn, &raw); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}

	var frame pollsUpdatedFrame
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		t.Fatalf("Invalid frame %q: %v", raw, err)
	}
	if frame.Type != models.MessageTypeInvocation || frame.Target != models.EventPollsUpdated || len(frame.Arguments) != 1 {
		t.Fatalf("Unexpected frame: %s", raw)
	}
	return frame
}

func postJSON(t *testing.T, target string, body any) *http.Response {
	t.Helper()

	data, _ := json.Marshal(body)
	resp, err := http.Post(target, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// TestRealtimeWorkflow negotiates, subscribes and watches mutations arrive
func TestRealtimeWorkflow(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	// Step 1: Negotiate
	resp := postJSON(t, server.URL+"/negotiate", nil)
	var neg models.NegotiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&neg); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if neg.URL != "ws"+server.URL[len("http"):]+"/client/hubs/polls" {
		t.Fatalf("Step 1 - Unexpected hub URL %q", neg.URL)
	}

	// Step 2: Subscribe and receive the initial (empty) snapshot
	conn, err := websocket.Dial(neg.URL+"?access_token="+url.QueryEscape(neg.AccessToken), "", server.URL)
	if err != nil {
		t.Fatalf("Step 2 - Dial failed: %v", err)
	}
	defer conn.Close()

	if frame := readFrame(t, conn); len(frame.Arguments[0]) != 0 {
		t.Fatalf("Step 2 - Expected empty snapshot, got %+v", frame.Arguments[0])
	}

	// Step 3: Create a poll and see it broadcast
	resp = postJSON(t, server.URL+"/createPoll", models.CreatePollRequest{
		Question: "Best Season?",
		Options:  []string{"Spring", "Summer", "Autumn"},
	})
	var created models.Poll
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Step 3 - Create failed: %d", resp.StatusCode)
	}

	frame := readFrame(t, conn)
	if len(frame.Arguments[0]) != 1 || frame.Arguments[0][0].ID != created.ID {
		t.Fatalf("Step 3 - Unexpected broadcast: %+v", frame.Arguments[0])
	}

	// Step 4: Vote and see the new count broadcast
	idx := 1
	resp = postJSON(t, server.URL+"/votePoll", models.VotePollRequest{PollID: created.ID, OptionIndex: &idx})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Step 4 - Vote failed: %d", resp.StatusCode)
	}

	frame = readFrame(t, conn)
	if got := frame.Arguments[0][0].Votes; len(got) != 3 || got[1] != 1 {
		t.Fatalf("Step 4 - Expected Summer to have 1 vote, got %v", got)
	}

	// Step 5: A rejected vote does not broadcast
	resp = postJSON(t, server.URL+"/votePoll", map[string]any{"poll_id": "missing", "option_index": 0})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Step 5 - Expected 404, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/votePoll", models.VotePollRequest{PollID: created.ID, OptionIndex: &idx})
	resp.Body.Close()

	frame = readFrame(t, conn)
	if got := frame.Arguments[0][0].Votes[1]; got != 2 {
		t.Fatalf("Step 5 - Expected next broadcast to carry 2 votes, got %d", got)
	}
}

// explodingStore panics on every list read
type explodingStore struct {
	store.PollStore
}

func (explodingStore) GetAllPolls(context.Context) ([]models.Poll, error) {
	panic("boom")
}

func TestHandlerPanicReturns500(t *testing.T) {
	polls := explodingStore{PollStore: testutil.NewTestStore(t, cliparse.StoreMemory)}
	server := httptest.NewServer(middleware.Recover(NewRouter(polls, testutil.NewTestNotifier(t, polls))))
	defer server.Close()

	resp, err := http.Get(server.URL + "/getAllPolls")
	if err != nil {
		t.Fatalf("Expected a 500 response, got transport error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", resp.StatusCode)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Message != "Internal server error" {
		t.Errorf("Expected 'Internal server error', got %q", errResp.Message)
	}

	// The server keeps serving after a panic
	health, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("Expected health 200 after panic, got %d", health.StatusCode)
	}
}
