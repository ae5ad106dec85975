package service

import (
	"context"
	"testing"

	domainerrors "github.com/nextchapterapp/nextchapter-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfileTest(t *testing.T) *ProfileService {
	t.Helper()

	s := newServiceStore(t)
	seedServiceUser(t, s, "user-a")
	seedServiceUser(t, s, "user-b")
	return NewProfileService(s, nil)
}

func TestProfileService_Create(t *testing.T) {
	svc := setupProfileTest(t)
	ctx := context.Background()

	profile, err := svc.Create(ctx, "user-a", CreateProfileRequest{
		Username:    "  Alice_Reads ",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_reads", profile.Username, "handles are normalized to lowercase")
	assert.Equal(t, "Alice", profile.DisplayName)

	// The handle is now taken.
	_, err = svc.Create(ctx, "user-b", CreateProfileRequest{
		Username:    "alice_reads",
		DisplayName: "Impostor",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestProfileService_Create_InvalidUsername(t *testing.T) {
	svc := setupProfileTest(t)
	ctx := context.Background()

	for _, username := range []string{"ab", "has spaces", "Dash-ed", "waytoolongusername_exceeding"} {
		_, err := svc.Create(ctx, "user-a", CreateProfileRequest{
			Username:    username,
			DisplayName: "Alice",
		})
		assert.ErrorIs(t, err, domainerrors.ErrValidation, "username %q", username)
	}
}

func TestProfileService_GetByUsername(t *testing.T) {
	svc := setupProfileTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", CreateProfileRequest{
		Username:    "alice_reads",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	found, err := svc.GetByUsername(ctx, "Alice_Reads")
	require.NoError(t, err)
	assert.Equal(t, "user-a", found.UserID)

	_, err = svc.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileService_Update(t *testing.T) {
	svc := setupProfileTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", CreateProfileRequest{
		Username:    "alice_reads",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "user-a", UpdateProfileRequest{DisplayName: "Alice R."})
	require.NoError(t, err)
	assert.Equal(t, "Alice R.", updated.DisplayName)
	assert.Equal(t, "alice_reads", updated.Username)

	_, err = svc.Update(ctx, "user-b", UpdateProfileRequest{DisplayName: "Nobody"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileService_CheckUsername(t *testing.T) {
	svc := setupProfileTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", CreateProfileRequest{
		Username:    "alice_reads",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	valid, available, err := svc.CheckUsername(ctx, "alice_reads")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.False(t, available)

	valid, available, err = svc.CheckUsername(ctx, "fresh_handle")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.True(t, available)

	valid, _, err = svc.CheckUsername(ctx, "x")
	require.NoError(t, err)
	assert.False(t, valid)
}
