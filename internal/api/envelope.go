package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope structure itself changes,
// letting clients detect incompatible servers before parsing payloads.
const envelopeVersion = 1

// successEnvelope wraps successful responses.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// simpleErrorEnvelope wraps errors that carry only a message.
type simpleErrorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// detailedErrorEnvelope wraps errors with a machine-readable code and
// optional per-field details.
type detailedErrorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned
// envelope clients expect. Registered as a huma transformer so handlers
// return plain bodies.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" {
			return &simpleErrorEnvelope{
				V:       envelopeVersion,
				Success: false,
				Error:   apiErr.Message,
			}, nil
		}
		return &detailedErrorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	// huma's built-in errors arrive as ErrorModel when our handler
	// didn't produce them.
	if errModel, ok := v.(*huma.ErrorModel); ok {
		return &simpleErrorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   errModel.Title,
		}, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
