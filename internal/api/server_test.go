package api

import (
	"encoding/hex"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/nextchapterapp/nextchapter-server/internal/auth"
	"github.com/nextchapterapp/nextchapter-server/internal/search"
	"github.com/nextchapterapp/nextchapter-server/internal/service"
	"github.com/nextchapterapp/nextchapter-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired server on a throwaway database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)

	services := &Services{
		Auth:           authService,
		Session:        sessionService,
		Profile:        service.NewProfileService(st, logger),
		BookList:       service.NewBookListService(st, logger),
		Circle:         service.NewCircleService(st, logger),
		Recommendation: service.NewRecommendationService(st, logger),
		Shelf:          service.NewShelfService(st, logger),
		Stats:          service.NewStatsService(st, logger),
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("NextChapter API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerBookRoutes()
	s.registerCircleRoutes()
	s.registerRecommendationRoutes()
	s.registerShelfRoutes()
	s.registerStatsRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, api),
	}
}

// withSearchClient points the server's search at a stub upstream.
func (ts *testServer) withSearchClient(baseURL string) {
	ts.services.Search = search.NewClient(baseURL, 5*time.Second, ts.logger)
	ts.registerSearchRoutes()
}

// registerTestUser creates an account and returns its token and user ID.
func (ts *testServer) registerTestUser(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// createTestProfile claims a username for the user behind the token.
func (ts *testServer) createTestProfile(t *testing.T, token, username string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/profile",
		"Authorization: Bearer "+token,
		map[string]any{
			"username":     username,
			"display_name": username,
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Create profile failed: %s", resp.Body.String())
}

// addTestBook creates a book and returns its ID.
func (ts *testServer) addTestBook(t *testing.T, token, title, status string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{
			"title":  title,
			"author": "Test Author",
			"status": status,
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, "Add book failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)

	return envelope.Data.ID
}

// decodeEnvelope unmarshals a response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}
