package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/tmanorigins/tman-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared envelope, so JSON operations
// and raw handlers answer in the same shape.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return response.Envelope{
			Version: response.Version,
			Success: false,
			Error:   body.Message,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case *huma.ErrorModel:
		return response.Envelope{
			Version: response.Version,
			Success: false,
			Error:   body.Detail,
			Code:    statusToCode(body.Status),
			Message: body.Detail,
		}, nil
	case response.Envelope, *response.Envelope:
		return v, nil
	default:
		return response.Envelope{Version: response.Version, Success: true, Data: v}, nil
	}
}
