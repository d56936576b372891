package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/streamscoutapp/streamscout-server/internal/http/response"
)

// EnvelopeVersion is the response envelope schema version.
const EnvelopeVersion = response.Version

// APIEnvelope wraps every successful response and plain errors.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitzero"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps structured errors raised through APIError.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the versioned envelope.
// Raw byte bodies (the chart page) are written by huma without transformers.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch val := v.(type) {
	case *APIError:
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   val.Message,
			Code:    val.Code,
			Details: val.Details,
		}, nil
	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   val.Error(),
		}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
