package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"golang.org/x/sync/singleflight"
)

const refreshPath = "/auth/refresh"

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type refresher interface {
	refresh(ctx context.Context, refreshToken string) (refreshResponse, error)
}

// directRefresher issues one refresh call per caller. Concurrent callers that
// hit an expired token at the same time each refresh independently.
type directRefresher struct {
	client *Client
}

func (d directRefresher) refresh(ctx context.Context, refreshToken string) (refreshResponse, error) {
	return d.client.postRefresh(ctx, refreshToken)
}

// sharedRefresher collapses concurrent refreshes of the same refresh token
// into a single backend call whose result every waiter receives. Needed when
// the backend rotates refresh tokens on use.
type sharedRefresher struct {
	client *Client
	group  singleflight.Group
}

func (s *sharedRefresher) refresh(ctx context.Context, refreshToken string) (refreshResponse, error) {
	v, err, shared := s.group.Do(refreshToken, func() (any, error) {
		return s.client.postRefresh(context.WithoutCancel(ctx), refreshToken)
	})
	if err != nil {
		return refreshResponse{}, err
	}
	if shared {
		s.client.logger.Debug().Msg("joined in-flight token refresh")
	}
	return v.(refreshResponse), nil
}

// postRefresh exchanges the refresh token for a new access token. It bypasses
// the interceptors: no bearer is attached and its failures are not retried.
func (c *Client) postRefresh(ctx context.Context, refreshToken string) (refreshResponse, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return refreshResponse{}, fmt.Errorf("[Client postRefresh] marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return refreshResponse{}, fmt.Errorf("[Client postRefresh] create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(requestIDHeader, uuid.NewString())

	c.logger.Debug().Msg("refreshing access token")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return refreshResponse{}, fmt.Errorf("%w: %w: %w", apperrors.ErrRefreshFailed, apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return refreshResponse{}, fmt.Errorf("%w: read body: %w", apperrors.ErrRefreshFailed, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return refreshResponse{}, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, apperrors.NewAPIError(resp.StatusCode, body))
	}

	var out refreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return refreshResponse{}, fmt.Errorf("%w: %w: %w", apperrors.ErrRefreshFailed, apperrors.ErrInvalidTokenPayload, err)
	}
	if out.Token == "" {
		return refreshResponse{}, fmt.Errorf("%w: %w: missing token", apperrors.ErrRefreshFailed, apperrors.ErrInvalidTokenPayload)
	}
	return out, nil
}
