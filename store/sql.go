// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/livepoll/models"
)

// SQL is a PollStore backed by the tables created in package db.
// Every operation runs in a transaction; vote increments are a single
// UPDATE so concurrent votes cannot lose updates.
type SQL struct {
	db  *sql.DB
	ids *IDGenerator
}

func NewSQL(db *sql.DB, ids *IDGenerator) *SQL {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	return &SQL{db: db, ids: ids}
}

// CreatePoll stores a poll under a freshly generated ID
func (s *SQL) CreatePoll(ctx context.Context, question string, options []string) (models.Poll, error) {
	if err := validatePoll(question, options); err != nil {
		return models.Poll{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := s.ids.NewID()
	for {
		exists, err := pollExists(ctx, tx, id)
		if err != nil {
			return models.Poll{}, err
		}
		if !exists {
			break
		}
		id = s.ids.NewID()
	}

	poll, err := insertPoll(ctx, tx, id, question, options)
	if err != nil {
		return models.Poll{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}
	return poll, nil
}

// CreatePollWithID stores a poll under a caller-supplied ID
func (s *SQL) CreatePollWithID(ctx context.Context, id, question string, options []string) (models.Poll, error) {
	if id == "" {
		return models.Poll{}, fmt.Errorf("%w: poll_id is required", ErrValidation)
	}
	if err := validatePoll(question, options); err != nil {
		return models.Poll{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := pollExists(ctx, tx, id)
	if err != nil {
		return models.Poll{}, err
	}
	if exists {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrConflict, id)
	}

	poll, err := insertPoll(ctx, tx, id, question, options)
	if err != nil {
		return models.Poll{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}
	return poll, nil
}

// VotePoll adds one vote to the option at optionIndex
func (s *SQL) VotePoll(ctx context.Context, id string, optionIndex int) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := loadPoll(ctx, tx, id)
	if err != nil {
		return models.Poll{}, err
	}
	if err := validateOptionIndex(optionIndex, len(poll.Options)); err != nil {
		return models.Poll{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll_option
		SET votes = votes + 1
		WHERE poll_id = ? AND idx = ?
	`, id, optionIndex)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to record vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	poll.Votes[optionIndex]++
	return poll, nil
}

// GetPoll returns a single poll
func (s *SQL) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	return loadPoll(ctx, s.db, id)
}

// GetAllPolls returns every poll in creation order
func (s *SQL) GetAllPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.question, o.label, o.votes
		FROM poll p
		JOIN poll_option o ON o.poll_id = p.id
		ORDER BY p.seq, o.idx
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	list := []models.Poll{}
	for rows.Next() {
		var id, question, label string
		var votes int
		if err := rows.Scan(&id, &question, &label, &votes); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		if n := len(list); n == 0 || list[n-1].ID != id {
			list = append(list, models.Poll{ID: id, Question: question, Options: []string{}, Votes: []int{}})
		}
		last := &list[len(list)-1]
		last.Options = append(last.Options, label)
		last.Votes = append(last.Votes, votes)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}
	return list, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func pollExists(ctx context.Context, q querier, id string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll WHERE id = ?)
	`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query poll: %w", err)
	}
	return exists, nil
}

func insertPoll(ctx context.Context, tx *sql.Tx, id, question string, options []string) (models.Poll, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO poll (id, question)
		VALUES (?, ?)
	`, id, question)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, label := range options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (poll_id, idx, label)
			VALUES (?, ?, ?)
		`, id, i, label)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return newPoll(id, question, options), nil
}

func loadPoll(ctx context.Context, q querier, id string) (models.Poll, error) {
	poll := models.Poll{ID: id, Options: []string{}, Votes: []int{}}
	err := q.QueryRowContext(ctx, `
		SELECT question FROM poll WHERE id = ?
	`, id).Scan(&poll.Question)
	if err == sql.ErrNoRows {
		return models.Poll{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT label, votes
		FROM poll_option
		WHERE poll_id = ?
		ORDER BY idx
	`, id)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var votes int
		if err := rows.Scan(&label, &votes); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, label)
		poll.Votes = append(poll.Votes, votes)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to read options: %w", err)
	}
	return poll, nil
}
