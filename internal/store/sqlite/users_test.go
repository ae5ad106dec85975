package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
)

func TestCreateUser_AndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		ID:           "user-1",
		Email:        "reader@example.com",
		PasswordHash: "$argon2id$...",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "reader@example.com" {
		t.Errorf("email = %q", got.Email)
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("last_login_at should be zero, got %v", got.LastLoginAt)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	now := time.Now()
	err := s.CreateUser(ctx, &domain.User{
		ID:           "user-2",
		Email:        "USER-1@example.com", // Emails collate case-insensitively
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	got, err := s.GetUserByEmail(ctx, "user-1@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("id = %s", got.ID)
	}

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser_LastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	user, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	user.LastLoginAt = time.Now()
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.LastLoginAt.IsZero() {
		t.Error("last_login_at should round-trip")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateUser(context.Background(), &domain.User{ID: "user-ghost", Email: "g@example.com"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
