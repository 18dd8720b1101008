// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"skajny/internal/models"
)

func TestMessageStoreSend(t *testing.T) {
	db := testDB(t)
	s := NewMessageStore(db)
	sent := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	s.now = fixedClock(sent)
	ctx := context.Background()

	res := s.Send(ctx, models.NewMessage{
		Name:    "Jana Nováková",
		Email:   "jana@example.cz",
		Subject: "Poptávka",
		Body:    "Dobrý den",
	})
	if !res.Success {
		t.Fatalf("Send failed: %v", res.Err)
	}
	t.Cleanup(func() { cleanRows(t, db, "messages", res.ID) })

	m, err := s.FindByID(ctx, res.ID)
	if err != nil || m == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if m.Read {
		t.Error("new message must be unread")
	}
	if !m.CreatedAt.Equal(sent) {
		t.Errorf("created_at: got %v, want %v", m.CreatedAt, sent)
	}
	if m.Name != "Jana Nováková" || m.Body != "Dobrý den" {
		t.Errorf("unexpected message: %+v", m)
	}
}

func TestMessageStoreSendReportsFailure(t *testing.T) {
	db := testDB(t)
	s := NewMessageStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := s.Send(ctx, models.NewMessage{Name: "x", Email: "x@example.cz", Subject: "x", Body: "x"})
	if res.Success {
		t.Error("expected failure with cancelled context")
	}
	if res.Err == nil {
		t.Error("expected error to be reported")
	}
}

func TestMessageStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	s := NewMessageStore(db)
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = fixedClock(base)
	older, err := s.Create(ctx, models.NewMessage{Name: "a", Email: "a@example.cz", Subject: "a", Body: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.now = fixedClock(base.Add(time.Hour))
	newer, err := s.Create(ctx, models.NewMessage{Name: "b", Email: "b@example.cz", Subject: "b", Body: "b"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "messages", older.ID, newer.ID) })

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) < 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("expected newer then older at the head of the list")
	}
}
