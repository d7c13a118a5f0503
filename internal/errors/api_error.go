package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// CodeTokenExpired is the backend error code for an expired but otherwise
// well-formed access token.
const CodeTokenExpired = "TOKEN_EXPIRED"

const unexpectedErrorMessage = "An unexpected error occurred"

const maxBodyInError = 200

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // Backend error code, e.g. TOKEN_EXPIRED
	Message string // Backend supplied message, may be empty
	Body    []byte // Raw response body
}

// NewAPIError builds an APIError from a status and a (possibly non-JSON) body.
func NewAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	text := strings.TrimSpace(string(e.Body))
	if text == "" {
		text = http.StatusText(e.Status)
	}
	text = truncate(text, maxBodyInError)
	return fmt.Sprintf("api error %d: %s", e.Status, text)
}

// IsTokenExpired reports whether the response is the backend's expired-token signal.
func (e *APIError) IsTokenExpired() bool {
	return e.Status == http.StatusUnauthorized && e.Code == CodeTokenExpired
}

// Classification groups an error into the categories callers display differently.
type Classification struct {
	Message           string
	Status            int
	IsNetworkError    bool
	IsValidationError bool
	IsAuthError       bool
	IsNotFoundError   bool
	IsServerError     bool
}

// Classify inspects err for an APIError. Requests that never got a response
// are network errors.
func Classify(err error) Classification {
	c := Classification{Message: Message(err)}

	var apiErr *APIError
	if !As(err, &apiErr) {
		c.IsNetworkError = Is(err, ErrNetwork)
		return c
	}

	c.Status = apiErr.Status
	c.IsValidationError = apiErr.Status == http.StatusBadRequest
	c.IsAuthError = apiErr.Status == http.StatusUnauthorized
	c.IsNotFoundError = apiErr.Status == http.StatusNotFound
	c.IsServerError = apiErr.Status >= http.StatusInternalServerError
	return c
}

// Message returns the backend message when there is one, then the error text,
// then a generic fallback.
func Message(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}
	var apiErr *APIError
	if As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unexpectedErrorMessage
}

// BackendMessage returns the backend supplied message, or fallback when err
// carries none. Used where the caller wants its own wording for everything
// that is not the backend's.
func BackendMessage(err error, fallback string) string {
	var apiErr *APIError
	if As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
