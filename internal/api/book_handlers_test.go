package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListBooks(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	ts.addTestBook(t, token, "The Dispossessed", "want_to_read")
	ts.addTestBook(t, token, "The Lathe of Heaven", "want_to_read")
	ts.addTestBook(t, token, "Middlemarch", "currently_reading")

	resp := ts.api.Get("/api/v1/books?status=want_to_read", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[ListBooksResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Books, 2)
	assert.Equal(t, "The Dispossessed", envelope.Data.Books[0].Title)
	assert.Equal(t, 0, envelope.Data.Books[0].Position)
	assert.Equal(t, "The Lathe of Heaven", envelope.Data.Books[1].Title)
	assert.Equal(t, 1, envelope.Data.Books[1].Position)

	// Unfiltered list returns everything.
	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	envelope = decodeEnvelope[ListBooksResponse](t, resp.Body.Bytes())
	assert.Len(t, envelope.Data.Books, 3)
}

func TestAddBook_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books",
		"Authorization: Bearer "+token,
		map[string]any{"author": "Anonymous", "status": "want_to_read"},
	)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestUpdateBook_FinishStampsCompletedAt(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	bookID := ts.addTestBook(t, token, "Piranesi", "currently_reading")

	resp := ts.api.Patch("/api/v1/books/"+bookID,
		"Authorization: Bearer "+token,
		map[string]any{"status": "have_read"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[BookResponse](t, resp.Body.Bytes())
	assert.Equal(t, "have_read", envelope.Data.Status)
	require.NotNil(t, envelope.Data.CompletedAt)
	assert.False(t, envelope.Data.CompletedAt.IsZero())
}

func TestMoveBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	bookID := ts.addTestBook(t, token, "The Fifth Season", "want_to_read")

	resp := ts.api.Post("/api/v1/books/"+bookID+"/move",
		"Authorization: Bearer "+token,
		map[string]any{"status": "currently_reading", "position": 0},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[BookResponse](t, resp.Body.Bytes())
	assert.Equal(t, "currently_reading", envelope.Data.Status)
	assert.Equal(t, 0, envelope.Data.Position)
}

func TestDeleteBook_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	bookID := ts.addTestBook(t, token, "Annihilation", "want_to_read")

	resp := ts.api.Delete("/api/v1/books/"+bookID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Deleting again still succeeds.
	resp = ts.api.Delete("/api/v1/books/"+bookID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestPrioritySlots(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	first := ts.addTestBook(t, token, "A Memory Called Empire", "want_to_read")
	second := ts.addTestBook(t, token, "A Desolation Called Peace", "want_to_read")

	resp := ts.api.Put("/api/v1/books/"+first+"/priority",
		"Authorization: Bearer "+token,
		map[string]any{"priority": 1},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Stealing the slot evicts the first book.
	resp = ts.api.Put("/api/v1/books/"+second+"/priority",
		"Authorization: Bearer "+token,
		map[string]any{"priority": 1},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/books/priorities", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[PriorityBooksResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Slots, 3)
	require.NotNil(t, envelope.Data.Slots[0])
	assert.Equal(t, second, envelope.Data.Slots[0].ID)
	assert.Nil(t, envelope.Data.Slots[1])
	assert.Nil(t, envelope.Data.Slots[2])
}

func TestSetPriority_NonBacklogBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	bookID := ts.addTestBook(t, token, "The Overstory", "currently_reading")

	resp := ts.api.Put("/api/v1/books/"+bookID+"/priority",
		"Authorization: Bearer "+token,
		map[string]any{"priority": 1},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestReorderBooks(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")
	a := ts.addTestBook(t, token, "Book A", "want_to_read")
	b := ts.addTestBook(t, token, "Book B", "want_to_read")
	c := ts.addTestBook(t, token, "Book C", "want_to_read")

	resp := ts.api.Post("/api/v1/books/reorder",
		"Authorization: Bearer "+token,
		map[string]any{
			"status":   "want_to_read",
			"book_ids": []string{c, a, b},
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/books?status=want_to_read", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ListBooksResponse](t, resp.Body.Bytes())
	require.Len(t, envelope.Data.Books, 3)
	assert.Equal(t, c, envelope.Data.Books[0].ID)
	assert.Equal(t, a, envelope.Data.Books[1].ID)
	assert.Equal(t, b, envelope.Data.Books[2].ID)
}
