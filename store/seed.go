// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
)

var demoPolls = []struct {
	question string
	options  []string
}{
	{"What's your favorite programming language?", []string{"Go", "Python", "JavaScript", "Rust"}},
	{"Best Season?", []string{"Spring", "Summer", "Autumn", "Winter"}},
}

// SeedDemo inserts a small set of sample polls and returns how many it created
func SeedDemo(ctx context.Context, s PollStore) (int, error) {
	for i, demo := range demoPolls {
		if _, err := s.CreatePoll(ctx, demo.question, demo.options); err != nil {
			return i, fmt.Errorf("failed to seed demo poll %q: %w", demo.question, err)
		}
	}
	return len(demoPolls), nil
}
