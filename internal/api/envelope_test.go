package api

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "", map[string]string{"hello": "world"})
	require.NoError(t, err)

	env, ok := out.(*successEnvelope)
	require.True(t, ok)
	assert.Equal(t, envelopeVersion, env.V)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
}

func TestEnvelopeTransformer_SimpleError(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "", &APIError{
		status:  404,
		Message: "book not found",
	})
	require.NoError(t, err)

	env, ok := out.(*simpleErrorEnvelope)
	require.True(t, ok)
	assert.Equal(t, envelopeVersion, env.V)
	assert.False(t, env.Success)
	assert.Equal(t, "book not found", env.Error)
}

func TestEnvelopeTransformer_DetailedError(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "", &APIError{
		status:  400,
		Code:    "VALIDATION_ERROR",
		Message: "username is invalid",
		Details: map[string]string{"username": "too short"},
	})
	require.NoError(t, err)

	env, ok := out.(*detailedErrorEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "username is invalid", env.Message)
	assert.NotNil(t, env.Details)
}

func TestEnvelopeTransformer_HumaErrorModel(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "", &huma.ErrorModel{
		Status: 404,
		Title:  "Not Found",
	})
	require.NoError(t, err)

	env, ok := out.(*simpleErrorEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "Not Found", env.Error)
}
