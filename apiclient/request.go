package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const contentTypeJSON = "application/json"

// Request describes one backend call. Paths are relative to the client's base
// URL, e.g. "/clients/42".
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON encoded. Ignored when RawBody is set.
	Body any

	// RawBody is sent as is with ContentType (multipart uploads).
	RawBody     []byte
	ContentType string

	// Anonymous requests carry no bearer token and their auth failures are
	// returned to the caller without the refresh protocol (login, signup).
	Anonymous bool
}

// encode buffers the body once so a retry re-sends the same bytes.
func (r Request) encode() ([]byte, string, error) {
	if r.RawBody != nil {
		return r.RawBody, r.ContentType, nil
	}
	if r.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal body: %w", err)
	}
	return data, contentTypeJSON, nil
}

// Response is a successful (status < 400) backend response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("[Response Decode] empty body (status %d)", r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[Response Decode] %w", err)
	}
	return nil
}

// JSON returns the body as raw JSON. Empty bodies become JSON null.
func (r *Response) JSON() json.RawMessage {
	if len(r.Body) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(r.Body)
}
