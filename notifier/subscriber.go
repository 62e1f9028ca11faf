// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notifier

import "sync"

type subscriber struct {
	id        string
	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscriber(id string, buffer int) *subscriber {
	return &subscriber{
		id:   id,
		out:  make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue hands a frame to the subscriber's writer without blocking.
// It reports false when the frame was dropped.
func (s *subscriber) enqueue(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.out <- frame:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
