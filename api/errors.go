package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
)

// Error is a non-2xx backend response. Message is the human-readable text
// extracted from the response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap maps the status code onto the shared sentinel errors so callers can
// use errors.Is(err, apperrors.ErrUnauthorized).
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	}
	if e.StatusCode >= 500 {
		return apperrors.ErrInternal
	}
	return nil
}

// newError builds an Error from a response body. JSON bodies are searched for
// the usual message fields; anything else is used verbatim.
func newError(statusCode int, body []byte, fallback string) *Error {
	message := strings.TrimSpace(string(body))

	var quoted string
	var fields map[string]any
	if json.Unmarshal(body, &quoted) == nil {
		message = strings.TrimSpace(quoted)
	} else if json.Unmarshal(body, &fields) == nil {
		message = ""
		for _, key := range []string{"message", "error_description", "detail", "error", "title"} {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				message = strings.TrimSpace(s)
				break
			}
		}
	}

	if message == "" {
		message = fallback
	}
	if message == "" {
		message = fmt.Sprintf("request failed: %d", statusCode)
	}
	return &Error{StatusCode: statusCode, Message: message}
}
