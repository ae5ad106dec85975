package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)

	db, ok := envelope.Data.Components["database"]
	require.True(t, ok)
	assert.Equal(t, "healthy", db.Status)
	assert.NotEmpty(t, db.Latency)
}
