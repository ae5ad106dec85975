package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, envelope.V)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "reader@example.com", envelope.Data.User.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestRegister_ShortPassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.False(t, envelope.Data.User.LastLoginAt.IsZero())
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "WrongPassword123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestRefresh(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	registered := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	refreshed := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, refreshed.Data.AccessToken)
	// Rotation: the old refresh token is dead.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestLogout(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "reader@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	registered := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout",
		"Authorization: Bearer "+registered.Data.AccessToken,
		map[string]any{"session_id": registered.Data.SessionID},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The revoked session's refresh token no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestProtectedRoute_NoToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books")
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestProtectedRoute_GarbageToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books", "Authorization: Bearer v4.local.garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}
