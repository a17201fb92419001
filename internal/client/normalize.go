// ABOUTME: Response normalizer turning raw backend responses into payload or RequestError
// ABOUTME: Absorbs validation errors, flat messages, plain-text failures and empty bodies

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RequestError is the only error shape produced by the normalizer.
// It carries a display message and nothing else.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// IsRequestError reports whether err (or anything it wraps) is a RequestError
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// errorBody is the backend's error envelope
type errorBody struct {
	Detail  errorDetail     `json:"detail"`
	Message json.RawMessage `json:"message"`
}

// Normalize reads the whole response body once and returns either the JSON
// payload (2xx) or a *RequestError. An empty body is treated as {}.
// A nil catalog falls back to Vietnamese.
func Normalize(resp *http.Response, m *Messages) (json.RawMessage, error) {
	if m == nil {
		m = Vietnamese
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode <= 299

	if len(data) == 0 {
		data = []byte("{}")
	}
	if !json.Valid(data) {
		if !success {
			return nil, &RequestError{Message: m.ForStatus(resp.StatusCode, string(data))}
		}
		return nil, &RequestError{Message: m.InvalidResponse}
	}

	if !success {
		return nil, &RequestError{Message: m.errorMessage(data)}
	}
	return json.RawMessage(data), nil
}

// errorMessage derives the display message from a JSON error body
func (m *Messages) errorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		// Not an object (array, string, number): nothing to read from
		return m.Generic
	}

	switch body.Detail.kind {
	case detailText:
		return body.Detail.text
	case detailIssues:
		parts := make([]string, 0, len(body.Detail.issues))
		for _, issue := range body.Detail.issues {
			parts = append(parts, m.TranslateIssue(issue.field(m.FieldPlaceholder), issue.Msg))
		}
		return strings.Join(parts, ". ")
	case detailObject:
		return body.Detail.text
	case detailOther:
		return m.Generic
	}

	var message string
	if err := json.Unmarshal(body.Message, &message); err == nil && message != "" {
		return message
	}
	return m.Generic
}
