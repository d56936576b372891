package api

import (
	"encoding/json/v2"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{name: "success response", status: "200", input: map[string]string{"key": "value"}},
		{name: "created response", status: "201", input: map[string]string{"session_id": "123"}},
		{name: "no content response", status: "204", input: nil},
		{name: "plain error", status: "400", input: errors.New("invalid input")},
		{
			name:   "structured error with details",
			status: "422",
			input: &APIError{
				Code:    "VALIDATION",
				Message: "validation failed",
				Details: map[string]string{"game_id": "is required"},
			},
		},
		{name: "internal server error", status: "500", input: errors.New("internal error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(result)
			require.NoError(t, err)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(jsonBytes, &envelope))

			require.Contains(t, envelope, "v", "Envelope must contain version field 'v'")
			assert.Equal(t, float64(EnvelopeVersion), envelope["v"])
		})
	}
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]string{"game_id": "g1"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Empty(t, envelope.Error)
}

func TestEnvelopeTransformer_NilDataOmitted(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", nil)
	require.NoError(t, err)

	jsonBytes, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":true}`, string(jsonBytes))
}

func TestEnvelopeTransformer_EmptyListKept(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", struct {
		Games []string `json:"games"`
	}{Games: []string{}})
	require.NoError(t, err)

	jsonBytes, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":true,"data":{"games":[]}}`, string(jsonBytes))
}

func TestEnvelopeTransformer_ErrorResponse(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", errors.New("validation failed"))
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	assert.Equal(t, "validation failed", envelope.Error)
}

func TestEnvelopeTransformer_ErrorWithDetails(t *testing.T) {
	apiErr := &APIError{
		Code:    "UNAVAILABLE",
		Message: "Failed to load data. Please try again later.",
		Details: []string{"upstream timeout"},
	}

	result, err := EnvelopeTransformer(nil, "503", apiErr)
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok, "Expected APIErrorEnvelope type")

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.False(t, envelope.Success)
	assert.Equal(t, "UNAVAILABLE", envelope.Code)
	assert.Equal(t, "Failed to load data. Please try again later.", envelope.Error)
	assert.Equal(t, []string{"upstream timeout"}, envelope.Details)
}

func TestStatusToCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", statusToCode(400))
	assert.Equal(t, "VALIDATION", statusToCode(422))
	assert.Equal(t, "NOT_FOUND", statusToCode(404))
	assert.Equal(t, "RATE_LIMITED", statusToCode(429))
	assert.Equal(t, "UPSTREAM", statusToCode(502))
	assert.Equal(t, "UNAVAILABLE", statusToCode(503))
	assert.Equal(t, "INTERNAL", statusToCode(500))
}
