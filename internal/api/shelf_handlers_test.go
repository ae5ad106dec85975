package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceAndGetShelf(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	ts.createTestProfile(t, token, "shelby")
	bookID := ts.addTestBook(t, token, "The Bone Clocks", "want_to_read")

	resp := ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": bookID, "position": 3},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ShelfResponse](t, resp.Body.Bytes())
	assert.Equal(t, 5, envelope.Data.Capacity)
	require.Len(t, envelope.Data.Entries, 1)
	assert.Equal(t, 3, envelope.Data.Entries[0].Position)
	assert.Equal(t, bookID, envelope.Data.Entries[0].Book.ID)
}

func TestPlaceOnShelf_EvictsOccupant(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	first := ts.addTestBook(t, token, "Cloud Atlas", "want_to_read")
	second := ts.addTestBook(t, token, "Utopia Avenue", "want_to_read")

	resp := ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": first, "position": 1},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": second, "position": 1},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ShelfResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Entries, 1)
	assert.Equal(t, second, envelope.Data.Entries[0].Book.ID)
}

func TestPlaceOnShelf_Rejections(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	finished := ts.addTestBook(t, token, "Beloved", "have_read")

	// Only want-to-read books are shelvable.
	resp := ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": finished, "position": 1},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": "book-missing", "position": 1},
	)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestGetShelfByUsername(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerTestUser(t, "alice@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob@example.com")
	ts.createTestProfile(t, aliceToken, "alice_reads")
	bookID := ts.addTestBook(t, aliceToken, "Parable of the Sower", "want_to_read")

	resp := ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"book_id": bookID, "position": 1},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/shelves/alice_reads", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	envelope := decodeEnvelope[ShelfResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Entries, 1)
	assert.Equal(t, "Parable of the Sower", envelope.Data.Entries[0].Book.Title)

	// Moving the book off want_to_read hides the slot from visitors.
	resp = ts.api.Post("/api/v1/books/"+bookID+"/move",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"status": "currently_reading", "position": 0},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/shelves/alice_reads", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	envelope = decodeEnvelope[ShelfResponse](t, resp.Body.Bytes())
	assert.Empty(t, envelope.Data.Entries)

	resp = ts.api.Get("/api/v1/shelves/nobody_here", "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestRemoveFromShelf(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	bookID := ts.addTestBook(t, token, "Lincoln in the Bardo", "want_to_read")

	resp := ts.api.Put("/api/v1/shelf",
		"Authorization: Bearer "+token,
		map[string]any{"book_id": bookID, "position": 2},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/shelf/"+bookID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/shelf/"+bookID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}
