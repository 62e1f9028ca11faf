// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/livepoll/models"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("poll not found")
	ErrConflict   = errors.New("poll ID already exists")
)

// PollStore is the authoritative collection of polls.
// Every returned Poll is a copy; callers may mutate it freely.
type PollStore interface {
	CreatePoll(ctx context.Context, question string, options []string) (models.Poll, error)
	CreatePollWithID(ctx context.Context, id, question string, options []string) (models.Poll, error)
	VotePoll(ctx context.Context, id string, optionIndex int) (models.Poll, error)
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	GetAllPolls(ctx context.Context) ([]models.Poll, error)
}

// validatePoll checks the question and option labels of a new poll
func validatePoll(question string, options []string) error {
	if question == "" {
		return fmt.Errorf("%w: question is required", ErrValidation)
	}
	if len(options) == 0 {
		return fmt.Errorf("%w: at least one option is required", ErrValidation)
	}
	for i, opt := range options {
		if opt == "" {
			return fmt.Errorf("%w: option %d is empty", ErrValidation, i)
		}
	}
	return nil
}

func validateOptionIndex(optionIndex, optionCount int) error {
	if optionIndex < 0 || optionIndex >= optionCount {
		return fmt.Errorf("%w: option index %d out of range [0, %d)", ErrValidation, optionIndex, optionCount)
	}
	return nil
}

func newPoll(id, question string, options []string) models.Poll {
	return models.Poll{
		ID:       id,
		Question: question,
		Options:  append([]string(nil), options...),
		Votes:    make([]int, len(options)),
	}
}
