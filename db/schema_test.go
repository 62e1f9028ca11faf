// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "testing"

func TestOpen_CreatesSchema(t *testing.T) {
	conn, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"poll", "poll_option"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	// Re-running is harmless
	if err := CreateSchema(conn); err != nil {
		t.Errorf("CreateSchema() second run error = %v", err)
	}
}

func TestOpen_SeparateMemoryDatabases(t *testing.T) {
	a, err := Open(DefaultURL)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := Open(DefaultURL)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if _, err := a.Exec(`INSERT INTO poll (id, question) VALUES ('p1', 'Q?')`); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := b.QueryRow(`SELECT COUNT(*) FROM poll`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected isolated databases, second saw %d polls", count)
	}
}

func TestOpen_VoteCountsCannotGoNegative(t *testing.T) {
	conn, err := Open(DefaultURL)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO poll (id, question) VALUES ('p1', 'Q?')`); err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO poll_option (poll_id, idx, label, votes) VALUES ('p1', 0, 'A', -1)`)
	if err == nil {
		t.Error("Expected CHECK constraint to reject negative votes")
	}
}
