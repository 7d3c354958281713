// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoAccessToken is returned when an authenticated endpoint is called on a client
// without an access token. No request is sent.
var ErrNoAccessToken = errors.New("no access token: authorization has not completed")

type (
	// NetworkError is a transport-level failure: the request could not be sent or the
	// response could not be read.
	NetworkError struct {
		Op  string
		Err error
	}

	// APIError is a non-2xx response. When the body carried a single {"message"}
	// error, Message is that text; otherwise Verbatim is set and Message holds the
	// status code and the raw body.
	APIError struct {
		StatusCode int
		Message    string
		Verbatim   bool
	}

	// ValidationError is a non-2xx response whose body carried a list of errors.
	ValidationError struct {
		StatusCode int
		Errors     []FieldError
	}

	// FieldError is one entry of a ValidationError. Field is empty for errors that
	// are not tied to a request field.
	FieldError struct {
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	}

	// ProtocolError is a 2xx response whose body does not match the wire contract.
	ProtocolError struct {
		Op  string
		Err error
	}
)

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *APIError) Error() string {
	if e.Verbatim {
		return e.Message
	}
	return fmt.Sprintf("registry error (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.String())
	}
	return fmt.Sprintf("registry rejected the request (HTTP %d): %s", e.StatusCode, strings.Join(msgs, "; "))
}

// String renders the error as "field: message", or just the message when there is no field.
func (fe FieldError) String() string {
	if fe.Field == "" {
		return fe.Message
	}
	return fe.Field + ": " + fe.Message
}

// UnmarshalJSON accepts either an object with "field"/"message" or a bare string.
func (fe *FieldError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*fe = FieldError{Message: s}
		return nil
	}
	type plain FieldError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*fe = FieldError(p)
	return nil
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response from the registry: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// decodeError converts a non-2xx response body into an error. A single-error body is
// tried first, then a multi-error body; anything else is reported verbatim.
func decodeError(statusCode int, body []byte) error {
	var single struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &single); err == nil && single.Message != "" {
		return &APIError{StatusCode: statusCode, Message: single.Message}
	}

	var multi struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &multi); err == nil && len(multi.Errors) > 0 {
		return &ValidationError{StatusCode: statusCode, Errors: multi.Errors}
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", statusCode, strings.TrimSpace(string(body))),
		Verbatim:   true,
	}
}
