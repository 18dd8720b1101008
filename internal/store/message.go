// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"skajny/internal/models"
)

// MessageStore manages contact-form messages. Messages are never updated
// or deleted; the read flag is written false at creation.
type MessageStore struct {
	db  *sql.DB
	now Clock
}

// NewMessageStore returns a new MessageStore.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db, now: systemClock}
}

// SendResult reports the outcome of a contact submission. Send never
// returns an error; failures are reported through Success.
type SendResult struct {
	Success bool
	ID      uuid.UUID
	Err     error
}

const messageColumns = `id, name, email, subject, body, created_at, read`

func scanMessage(row scanner) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt, &m.Read); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a message with created_at set to now and read set to false.
func (s *MessageStore) Create(ctx context.Context, m models.NewMessage) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (name, email, subject, body, created_at, read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+messageColumns,
		m.Name, m.Email, m.Subject, m.Body, s.now(),
	)
	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return created, nil
}

// Send stores a contact submission and reports the outcome as a value.
func (s *MessageStore) Send(ctx context.Context, m models.NewMessage) SendResult {
	created, err := s.Create(ctx, m)
	if err != nil {
		slog.Error("send message failed", "error", err)
		return SendResult{Success: false, Err: err}
	}
	return SendResult{Success: true, ID: created.ID}
}

// List returns all messages, newest first.
func (s *MessageStore) List(ctx context.Context) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var items []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// FindByID retrieves a message by ID. Returns nil if not found.
func (s *MessageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	m, err := scanMessage(s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message by id: %w", err)
	}
	return m, nil
}
