package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the structured Graph error envelope the provider returns in
// failed response bodies.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode,omitempty"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", e.Code, e.Message)
}

type apiErrorEnvelope struct {
	Error *APIError `json:"error"`
}

// StatusError maps a non-success HTTP status to a fixed category message.
// API carries the provider's structured error body when one was present.
type StatusError struct {
	StatusCode int
	Message    string
	API        *APIError
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	if e.API != nil {
		return e.API
	}
	return nil
}

const genericFetchMessage = "An error occurred while fetching the data."

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusInternalServerError: "Internal Server Error",
}

func newStatusError(code int, body []byte) *StatusError {
	msg, ok := statusMessages[code]
	if !ok {
		msg = genericFetchMessage
	}
	se := &StatusError{StatusCode: code, Message: msg}
	var env apiErrorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Error != nil && env.Error.Code != 0 {
		se.API = env.Error
	}
	return se
}
