// Package apiclient is the single HTTP client every resource call goes
// through. It attaches the session's bearer token to outbound requests and
// repairs an expired access token with one refresh-and-retry per call; any
// other authentication failure ends the session and sends the user to login.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/jrsteele09/sewtrack/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader  = "X-Request-ID"
	defaultUserAgent = "sewtrack-client"
)

// Client is safe for concurrent use. Each call is tracked on its own for
// retry eligibility.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	navigator  navigation.Navigator
	logger     zerolog.Logger
	userAgent  string
	refresher  refresher
	shared     bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (no timeout beyond the transport's).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithNavigator sets who receives the login redirect when a session ends.
func WithNavigator(n navigation.Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSharedRefresh makes concurrent calls that expire together share one
// refresh call instead of each issuing their own.
func WithSharedRefresh() Option {
	return func(c *Client) {
		c.shared = true
	}
}

// New creates the client for baseURL (including the /api prefix).
func New(baseURL string, sess *session.Session, options ...Option) (*Client, error) {
	if sess == nil {
		return nil, errors.New("[apiclient New] session is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[apiclient New] parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("[apiclient New] base url must be http or https: %q", baseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		session:    sess,
		navigator:  navigation.Discard,
		logger:     log.Logger,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.shared {
		c.refresher = &sharedRefresher{client: c}
	} else {
		c.refresher = directRefresher{client: c}
	}
	return c, nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client reads tokens from.
func (c *Client) Session() *session.Session {
	return c.session
}

// ImageURL turns a stored image path into a fetchable URL. Absolute URLs
// (hosted images) are returned unchanged; relative paths are served by the
// backend host without the /api prefix.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(c.baseURL, "/api") + path
}

// Do sends req. A *Response is returned for status < 400; otherwise the error
// is an *errors.APIError, possibly wrapped with ErrSessionEnded when the
// failure ended the session, or an ErrNetwork error when no response arrived.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	body, contentType, err := req.encode()
	if err != nil {
		return nil, fmt.Errorf("[Client Do] %s %s: %w", req.Method, req.Path, err)
	}

	call := newCall(req.Method, req.Path)
	token := ""
	if !req.Anonymous {
		token = c.session.AccessToken()
	}

	for {
		resp, err := c.send(ctx, call, req, body, contentType, token)
		if err != nil {
			call.fail()
			return nil, err
		}
		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}

		apiErr := apperrors.NewAPIError(resp.StatusCode, resp.Body)
		if req.Anonymous || apiErr.Status != http.StatusUnauthorized {
			call.fail()
			return nil, apiErr
		}

		token, err = c.recoverExpiredToken(ctx, call, apiErr)
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// send performs one HTTP exchange for call with the given bearer token.
func (c *Client) send(ctx context.Context, call *call, req Request, body []byte, contentType, token string) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("[Client send] create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(requestIDHeader, call.id)
	authorize(httpReq, token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", apperrors.ErrNetwork, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: read body: %w", apperrors.ErrNetwork, req.Method, req.Path, err)
	}

	c.logger.Debug().
		Str("request_id", call.id).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("state", call.state.String()).
		Msg("api call")

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
