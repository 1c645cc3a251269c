package client

import "encoding/json"

// envelope mirrors the server's response wrapper.
type envelope[T any] struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    T               `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type errorBody struct {
	Error   string
	Code    string
	Message string
	Details json.RawMessage
}

func (e *envelope[T]) errorBody() errorBody {
	return errorBody{Error: e.Error, Code: e.Code, Message: e.Message, Details: e.Details}
}
