package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndRespondToRecommendation(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _, bobToken, bobID := setupCirclePair(t, ts)

	resp := ts.api.Post("/api/v1/recommendations",
		"Authorization: Bearer "+aliceToken,
		map[string]any{
			"to_user_id":  bobID,
			"book_title":  "The Spear Cuts Through Water",
			"book_author": "Simon Jimenez",
			"note":        "You will love the framing device.",
		},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	rec := decodeEnvelope[RecommendationResponse](t, resp.Body.Bytes())
	assert.Equal(t, "pending", rec.Data.Status)

	// Bob sees it with Alice's profile attached.
	resp = ts.api.Get("/api/v1/recommendations/incoming", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	incoming := decodeEnvelope[ListRecommendationsResponse](t, resp.Body.Bytes())
	require.Len(t, incoming.Data.Recommendations, 1)
	require.NotNil(t, incoming.Data.Recommendations[0].From)
	assert.Equal(t, "alice_reads", incoming.Data.Recommendations[0].From.Username)

	// The sender cannot respond.
	resp = ts.api.Post("/api/v1/recommendations/"+rec.Data.ID+"/respond",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"outcome": "added"},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/recommendations/"+rec.Data.ID+"/respond",
		"Authorization: Bearer "+bobToken,
		map[string]any{"outcome": "dismissed"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	responded := decodeEnvelope[RespondToRecommendationResponse](t, resp.Body.Bytes())
	assert.Equal(t, "dismissed", responded.Data.Recommendation.Status)
	assert.Nil(t, responded.Data.Book)

	// The transition is terminal.
	resp = ts.api.Post("/api/v1/recommendations/"+rec.Data.ID+"/respond",
		"Authorization: Bearer "+bobToken,
		map[string]any{"outcome": "added"},
	)
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestRespondToRecommendation_Import(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _, bobToken, bobID := setupCirclePair(t, ts)

	resp := ts.api.Post("/api/v1/recommendations",
		"Authorization: Bearer "+aliceToken,
		map[string]any{
			"to_user_id":  bobID,
			"book_title":  "Tomorrow, and Tomorrow, and Tomorrow",
			"book_author": "Gabrielle Zevin",
		},
	)
	require.Equal(t, http.StatusOK, resp.Code)
	rec := decodeEnvelope[RecommendationResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/recommendations/"+rec.Data.ID+"/respond",
		"Authorization: Bearer "+bobToken,
		map[string]any{"outcome": "added", "import": true},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	responded := decodeEnvelope[RespondToRecommendationResponse](t, resp.Body.Bytes())
	require.NotNil(t, responded.Data.Book)
	assert.Equal(t, "Tomorrow, and Tomorrow, and Tomorrow", responded.Data.Book.Title)
	assert.Equal(t, "want_to_read", responded.Data.Book.Status)
	// Attribution carries the sender's display name, not their ID.
	assert.Equal(t, "alice_reads", responded.Data.Book.RecommendedBy)
}

func TestSendRecommendation_Self(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, aliceID, _, _ := setupCirclePair(t, ts)

	resp := ts.api.Post("/api/v1/recommendations",
		"Authorization: Bearer "+aliceToken,
		map[string]any{
			"to_user_id":  aliceID,
			"book_title":  "Solaris",
			"book_author": "Stanislaw Lem",
		},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestBroadcastRequest(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _, bobToken, bobID := setupCirclePair(t, ts)
	connectCirclePair(t, ts, aliceToken, bobToken, bobID)

	// No to_user_id means the whole circle sees it.
	resp := ts.api.Post("/api/v1/requests",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"note": "Need a space opera for a long flight"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	req := decodeEnvelope[RequestResponse](t, resp.Body.Bytes())
	assert.Nil(t, req.Data.ToUserID)
	assert.Equal(t, "open", req.Data.Status)

	resp = ts.api.Get("/api/v1/requests/incoming", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	incoming := decodeEnvelope[ListRequestsResponse](t, resp.Body.Bytes())
	require.Len(t, incoming.Data.Requests, 1)
	assert.Equal(t, "Need a space opera for a long flight", incoming.Data.Requests[0].Note)

	// The sender's own incoming feed does not echo the broadcast.
	resp = ts.api.Get("/api/v1/requests/incoming", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)
	own := decodeEnvelope[ListRequestsResponse](t, resp.Body.Bytes())
	assert.Empty(t, own.Data.Requests)
}

func TestDirectRequest_OutsideCircle(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _, bobToken, bobID := setupCirclePair(t, ts)

	// Direct requests work without a connection.
	resp := ts.api.Post("/api/v1/requests",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"to_user_id": bobID, "note": "Any good essay collections?"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/requests/incoming", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	incoming := decodeEnvelope[ListRequestsResponse](t, resp.Body.Bytes())
	require.Len(t, incoming.Data.Requests, 1)
	require.NotNil(t, incoming.Data.Requests[0].ToUserID)
	assert.Equal(t, bobID, *incoming.Data.Requests[0].ToUserID)
}

func TestCloseRequest(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _, bobToken, bobID := setupCirclePair(t, ts)
	connectCirclePair(t, ts, aliceToken, bobToken, bobID)

	resp := ts.api.Post("/api/v1/requests",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"note": "Looking for short novels"},
	)
	require.Equal(t, http.StatusOK, resp.Code)
	req := decodeEnvelope[RequestResponse](t, resp.Body.Bytes())

	// Only the sender may close.
	resp = ts.api.Post("/api/v1/requests/"+req.Data.ID+"/close",
		"Authorization: Bearer "+bobToken, map[string]any{},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/requests/"+req.Data.ID+"/close",
		"Authorization: Bearer "+aliceToken, map[string]any{},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Closed requests vanish from circle feeds.
	resp = ts.api.Get("/api/v1/requests/incoming", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	incoming := decodeEnvelope[ListRequestsResponse](t, resp.Body.Bytes())
	assert.Empty(t, incoming.Data.Requests)

	// The sender still sees it in their own history.
	resp = ts.api.Get("/api/v1/requests/mine", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)
	mine := decodeEnvelope[ListRequestsResponse](t, resp.Body.Bytes())
	require.Len(t, mine.Data.Requests, 1)
	assert.Equal(t, "closed", mine.Data.Requests[0].Status)

	// Closing twice conflicts.
	resp = ts.api.Post("/api/v1/requests/"+req.Data.ID+"/close",
		"Authorization: Bearer "+aliceToken, map[string]any{},
	)
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}
