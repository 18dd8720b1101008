// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	user, err := s.Create(ctx, "test-create@store-test.local", "testpass123", "Test User")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "users", user.ID) })

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
	if !s.CheckPassword(user, "testpass123") {
		t.Error("expected password to verify")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()
	email := "test-findbyemail@store-test.local"

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create(ctx, email, "pass", "Find Me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "users", created.ID) })

	user, err = s.FindByEmail(ctx, email)
	if err != nil || user == nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u, err := s.Create(ctx, "test-totp@store-test.local", "pass", "TOTP")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "users", u.ID) })

	if err := s.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	got, _ := s.FindByID(ctx, u.ID)
	if !got.RequiresTOTP() {
		t.Error("expected user to require TOTP")
	}

	if err := s.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	got, _ = s.FindByID(ctx, u.ID)
	if got.RequiresTOTP() {
		t.Error("expected TOTP to be cleared")
	}
}
