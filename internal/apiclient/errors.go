package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("apiclient: malformed response")
	// ErrSessionExpired is returned when a 401 cannot be recovered by a refresh.
	ErrSessionExpired = errors.New("apiclient: session expired")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	if d := e.Detail(); d != "" {
		return fmt.Sprintf("apiclient: %s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), d)
	}
	return fmt.Sprintf("apiclient: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Detail extracts the backend's human message: "detail", then "message",
// then the first message of the first field error ({"email": ["..."]}).
func (e *APIError) Detail() string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		var s string
		if raw, ok := body[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}

	fields := make([]string, 0, len(body))
	for k := range body {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, field := range fields {
		var msgs []string
		if json.Unmarshal(body[field], &msgs) == nil && len(msgs) > 0 {
			return field + ": " + msgs[0]
		}
	}
	return ""
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
