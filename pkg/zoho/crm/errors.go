package zohocrm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the API responds with an empty body,
// which matches neither the error envelope nor any success shape.
var ErrEmptyResponse = errors.New("empty response")

// errNoToken is the guard for token responses that parsed fine but carried
// no access token.
var errNoToken = errors.New("no token received")

// APIError is the structured error envelope most CRM endpoints return.
// Branch on Code to react to specific failures:
//
//	var apiErr *zohocrm.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == "INVALID_MODULE" { ... }
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  string         `json:"status"`
	Details map[string]any `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UnexpectedResponseError is returned when a non-empty response body parses
// as neither the error envelope nor the expected success shape. Raw holds
// the body verbatim for inspection and logging.
type UnexpectedResponseError struct {
	Raw string
}

func (e *UnexpectedResponseError) Error() string {
	return e.Raw
}
