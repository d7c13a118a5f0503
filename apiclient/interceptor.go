package apiclient

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/jrsteele09/sewtrack/navigation"
)

// authorize is the outbound interceptor: attach the bearer token, nothing else.
func authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// recoverExpiredToken is the inbound interceptor for a 401. It returns the
// token to retry with, or the error to hand back to the caller. Only an
// expired token on a call that has not been refreshed yet is recoverable;
// everything else ends the session.
func (c *Client) recoverExpiredToken(ctx context.Context, call *call, apiErr *apperrors.APIError) (string, error) {
	if !apiErr.IsTokenExpired() {
		return "", c.endSession(call, "unauthorized", apiErr)
	}
	if err := call.transition(stateAwaitingRefresh); err != nil {
		return "", c.endSession(call, "token expired after retry", fmt.Errorf("%w: %w", apiErr, apperrors.ErrTokenExpired))
	}

	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		return "", c.endSession(call, "no refresh token", fmt.Errorf("%w: %w", apiErr, apperrors.ErrNoRefreshToken))
	}

	refreshed, err := c.refresher.refresh(ctx, refreshToken)
	if err != nil && ctx.Err() != nil {
		// the caller gave up; the stored session is still valid
		call.fail()
		c.logger.Debug().Str("request_id", call.id).Msg("token refresh abandoned")
		return "", fmt.Errorf("%w: %w", apiErr, ctx.Err())
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("request_id", call.id).Msg("token refresh failed")
		return "", c.endSession(call, "refresh failed", fmt.Errorf("%w: %w", apiErr, apperrors.ErrRefreshFailed))
	}

	if err := c.session.ReplaceAccessToken(refreshed.Token, refreshed.RefreshToken); err != nil {
		if apperrors.Is(err, apperrors.ErrNotAuthenticated) {
			// ended by a concurrent call while this refresh was in flight
			call.fail()
			return "", fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, apiErr)
		}
		c.logger.Error().Err(err).Msg("persist refreshed token")
		return "", c.endSession(call, "persist refreshed token", apiErr)
	}

	if err := call.transition(stateRetried); err != nil {
		return "", c.endSession(call, "retry rejected", apiErr)
	}
	c.logger.Debug().Str("request_id", call.id).Msg("access token refreshed, retrying")
	return refreshed.Token, nil
}

// endSession is the unrecoverable-auth path: clear the session and its
// durable tokens, ask for the login route and return cause wrapped with
// ErrSessionEnded.
func (c *Client) endSession(call *call, reason string, cause error) error {
	call.fail()

	if _, err := c.session.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("clear session")
	}
	c.logger.Warn().
		Str("request_id", call.id).
		Str("method", call.method).
		Str("path", call.path).
		Str("reason", reason).
		Msg("session ended")

	c.navigator.Navigate(navigation.Event{To: navigation.RouteLogin, Reason: navigation.ReasonSessionEnded})
	return fmt.Errorf("%w: %w", apperrors.ErrSessionEnded, cause)
}
