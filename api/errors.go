// ABOUTME: Error types for the meetings REST client
// ABOUTME: Carries the server-provided reason when the backend sends one
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Reason returns the server-provided reason for err, or "" when there is none.
func Reason(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Title   string              `json:"title"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
		return e
	}

	switch {
	case b.Message != "":
		e.Message = b.Message
	case b.Error != "":
		e.Message = b.Error
	case b.Detail != "":
		e.Message = b.Detail
	case len(b.Errors) > 0:
		fields := make([]string, 0, len(b.Errors))
		for f := range b.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		var parts []string
		for _, f := range fields {
			parts = append(parts, b.Errors[f]...)
		}
		e.Message = strings.Join(parts, "; ")
	case b.Title != "":
		e.Message = b.Title
	}
	return e
}
