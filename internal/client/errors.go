package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domainerrors "github.com/tmanorigins/tman-server/internal/errors"
)

// Kind classifies a failed call for presentation.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindNetwork
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is an error response returned by the server.
type APIError struct {
	Status  int
	Code    domainerrors.Code
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

// Unwrap exposes the error as a domain error so errors.Is matches domain sentinels by code.
func (e *APIError) Unwrap() error {
	return &domainerrors.Error{Code: e.Code, Message: e.Message}
}

// Kind classifies the error by HTTP status.
func (e *APIError) Kind() Kind {
	switch {
	case e.Status == http.StatusUnauthorized:
		return KindAuth
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusConflict:
		return KindConflict
	case e.Status == http.StatusBadRequest,
		e.Status == http.StatusUnprocessableEntity,
		e.Status == http.StatusRequestEntityTooLarge:
		return KindValidation
	case e.Status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// NetworkError reports that the server could not be reached or the exchange failed in transit.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindUnknown
}

// IsUnauthorized reports whether err means the session is missing, expired or the
// credentials were rejected.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindAuth
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a 409 from the server.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsValidation reports whether the server rejected the request as malformed.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}

func newAPIError(status int, body errorBody) *APIError {
	e := &APIError{
		Status:  status,
		Code:    domainerrors.Code(body.Code),
		Message: body.Message,
		Details: body.Details,
	}
	if e.Message == "" {
		e.Message = body.Error
	}
	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(status))
	}
	if e.Code == "" {
		e.Code = codeForStatus(status)
	}
	return e
}

func codeForStatus(status int) domainerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return domainerrors.CodeValidation
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusForbidden:
		return domainerrors.CodeForbidden
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	default:
		return domainerrors.CodeInternal
	}
}
