package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/store"
	"github.com/nextchapterapp/nextchapter-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// newServiceStore opens a fresh SQLite store in a temp directory.
func newServiceStore(t *testing.T) store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close() //nolint:errcheck // Test cleanup
	})

	return s
}

// seedServiceUser inserts a user row so foreign keys hold.
func seedServiceUser(t *testing.T, s store.Store, userID string) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        userID + "@example.com",
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// seedServiceProfile creates a profile for a seeded user.
func seedServiceProfile(t *testing.T, s store.Store, userID, username string) *domain.Profile {
	t.Helper()

	now := time.Now()
	profile := &domain.Profile{
		ID:          "prof-" + username,
		UserID:      userID,
		Username:    username,
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.CreateProfile(context.Background(), profile))
	return profile
}
