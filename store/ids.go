// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out poll identifiers derived from creation time.
// Values are strictly increasing for the life of the generator: when the
// clock has not moved past the previous value, the previous value plus one
// is used instead.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// NewID returns the next identifier formatted in base 10
func (g *IDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	return strconv.FormatInt(ts, 10)
}
