// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielhkuo/livepoll/models"
)

// Memory is a PollStore kept entirely in process memory behind one lock.
type Memory struct {
	mu    sync.RWMutex
	ids   *IDGenerator
	polls map[string]*models.Poll
	order []string
}

func NewMemory(ids *IDGenerator) *Memory {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	return &Memory{
		ids:   ids,
		polls: make(map[string]*models.Poll),
	}
}

// CreatePoll stores a poll under a freshly generated ID
func (s *Memory) CreatePoll(_ context.Context, question string, options []string) (models.Poll, error) {
	if err := validatePoll(question, options); err != nil {
		return models.Poll{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Skip over IDs a caller already claimed through CreatePollWithID
	id := s.ids.NewID()
	for s.polls[id] != nil {
		id = s.ids.NewID()
	}
	return s.insertLocked(id, question, options), nil
}

// CreatePollWithID stores a poll under a caller-supplied ID
func (s *Memory) CreatePollWithID(_ context.Context, id, question string, options []string) (models.Poll, error) {
	if id == "" {
		return models.Poll{}, fmt.Errorf("%w: poll_id is required", ErrValidation)
	}
	if err := validatePoll(question, options); err != nil {
		return models.Poll{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.polls[id] != nil {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrConflict, id)
	}
	return s.insertLocked(id, question, options), nil
}

func (s *Memory) insertLocked(id, question string, options []string) models.Poll {
	poll := newPoll(id, question, options)
	s.polls[id] = &poll
	s.order = append(s.order, id)
	return poll.Clone()
}

// VotePoll adds one vote to the option at optionIndex
func (s *Memory) VotePoll(_ context.Context, id string, optionIndex int) (models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll := s.polls[id]
	if poll == nil {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := validateOptionIndex(optionIndex, len(poll.Options)); err != nil {
		return models.Poll{}, err
	}

	poll.Votes[optionIndex]++
	return poll.Clone(), nil
}

// GetPoll returns a copy of a single poll
func (s *Memory) GetPoll(_ context.Context, id string) (models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll := s.polls[id]
	if poll == nil {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return poll.Clone(), nil
}

// GetAllPolls returns copies of every poll in creation order
func (s *Memory) GetAllPolls(_ context.Context) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Poll, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.polls[id].Clone())
	}
	return list, nil
}
