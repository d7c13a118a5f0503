// Package auth implements the session store operations: login, signup,
// profile fetch and update, logout and start-up rehydration. Every operation
// resolves to a Result; none returns an error to the caller.
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/sewtrack/apiclient"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/jrsteele09/sewtrack/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	loginPath   = "/auth/login"
	signupPath  = "/auth/signup"
	profilePath = "/auth/profile"

	loginFailedMessage  = "Login failed"
	signupFailedMessage = "Signup failed"
	updateFailedMessage = "Update failed"
)

// Doer sends a request through the authenticated client.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

var _ Doer = (*apiclient.Client)(nil)

// Service owns the transitions of a session.
type Service struct {
	session   *session.Session
	client    Doer
	navigator navigation.Navigator
	validator *Validator
	logger    zerolog.Logger
}

type ServiceOption func(*Service)

// WithNavigator sets who receives the login redirect after logout.
func WithNavigator(n navigation.Navigator) ServiceOption {
	return func(s *Service) {
		s.navigator = n
	}
}

func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates the session store operations over sess, sending requests through client.
func NewService(sess *session.Session, client Doer, options ...ServiceOption) (*Service, error) {
	if sess == nil {
		return nil, errors.New("[NewService] session is required")
	}
	if client == nil {
		return nil, errors.New("[NewService] client is required")
	}

	s := &Service{
		session:   sess,
		client:    client,
		navigator: navigation.Discard,
		validator: NewValidator(),
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Session returns the session this service mutates.
func (s *Service) Session() *session.Session {
	return s.session
}

// InitializeAuth loads persisted tokens into the session without contacting
// the backend. A stale token is repaired by the client on first use.
func (s *Service) InitializeAuth() Result {
	if err := s.session.Rehydrate(); err != nil {
		s.logger.Warn().Err(err).Msg("could not read stored tokens, starting logged out")
		return failed(apperrors.Message(err))
	}
	if s.session.IsAuthenticated() {
		s.logger.Debug().Msg("session restored from storage")
	}
	return succeeded()
}

// Login exchanges credentials for a token pair and the account profile.
func (s *Service) Login(ctx context.Context, email, password string) Result {
	s.session.BeginAuthentication()

	if err := s.validator.ValidateLogin(email, password); err != nil {
		return s.fail(err.Error())
	}

	tokens, err := s.requestTokens(ctx, loginPath, LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Info().Err(err).Msg("login failed")
		return s.fail(apperrors.BackendMessage(err, loginFailedMessage))
	}

	if err := s.establish(tokens.Token, tokens.RefreshToken, tokens.Tailor); err != nil {
		s.logger.Error().Err(err).Msg("login could not be stored")
		return s.fail(loginFailedMessage)
	}
	s.logger.Info().Msg("logged in")
	return succeeded()
}

// Signup registers a new account. The backend issues no refresh token at
// signup, so only the access token is stored; the session ends when it expires.
func (s *Service) Signup(ctx context.Context, req SignupRequest) Result {
	s.session.BeginAuthentication()

	if err := s.validator.ValidateSignup(req); err != nil {
		return s.fail(err.Error())
	}

	tokens, err := s.requestTokens(ctx, signupPath, req)
	if err != nil {
		s.logger.Info().Err(err).Msg("signup failed")
		return s.fail(apperrors.BackendMessage(err, signupFailedMessage))
	}

	if err := s.establish(tokens.Token, "", tokens.Tailor); err != nil {
		s.logger.Error().Err(err).Msg("signup could not be stored")
		return s.fail(signupFailedMessage)
	}
	s.logger.Info().Msg("signed up")
	return succeeded()
}

// FetchProfile replaces the account with the backend's current profile. A
// failure is recorded on the session but never clears its tokens.
func (s *Service) FetchProfile(ctx context.Context) Result {
	account, err := s.profile(ctx, apiclient.Request{Method: http.MethodGet, Path: profilePath})
	if err == nil {
		err = s.session.SetAccount(account)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("fetch profile failed")
		msg := apperrors.Message(err)
		s.session.Fail(msg)
		return failed(msg)
	}
	return succeeded()
}

// UpdateProfile sends the changed fields and stores the server's copy of the profile.
func (s *Service) UpdateProfile(ctx context.Context, fields map[string]any) Result {
	if len(fields) == 0 {
		return s.fail(NothingToUpdateErr.Error())
	}

	account, err := s.profile(ctx, apiclient.Request{Method: http.MethodPut, Path: profilePath, Body: fields})
	if err == nil {
		err = s.session.SetAccount(account)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("update profile failed")
		return s.fail(apperrors.BackendMessage(err, updateFailedMessage))
	}
	return succeeded()
}

// Logout clears the session and its stored tokens, then sends the user to
// login. Calling it on an empty session changes nothing.
func (s *Service) Logout() Result {
	hadState, err := s.session.Clear()
	if err != nil {
		s.logger.Error().Err(err).Msg("clear stored tokens")
	}
	if !hadState {
		return succeeded()
	}

	s.logger.Info().Msg("logged out")
	s.navigator.Navigate(navigation.Event{To: navigation.RouteLogin, Reason: navigation.ReasonLoggedOut})
	return succeeded()
}

// requestTokens posts credentials without the bearer token, so a rejected
// login is reported rather than treated as an expired session.
func (s *Service) requestTokens(ctx context.Context, path string, body any) (*TokenResponse, error) {
	resp, err := s.client.Do(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      path,
		Body:      body,
		Anonymous: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "[Service.requestTokens] %s", path)
	}

	var tokens TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, errors.Wrapf(err, "[Service.requestTokens] %s decode", path)
	}
	if tokens.Token == "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidTokenPayload, "[Service.requestTokens] %s", path)
	}
	return &tokens, nil
}

func (s *Service) profile(ctx context.Context, req apiclient.Request) (*session.AccountProfile, error) {
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Service.profile] %s", req.Method)
	}

	var out ProfileResponse
	if err := resp.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "[Service.profile] decode")
	}
	account, err := session.ParseAccount(out.Tailor)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.profile] parse tailor")
	}
	if account == nil {
		return nil, MissingProfileErr
	}
	return account, nil
}

func (s *Service) establish(accessToken, refreshToken string, tailor json.RawMessage) error {
	account, err := session.ParseAccount(tailor)
	if err != nil {
		return errors.Wrap(err, "[Service.establish]")
	}
	return s.session.Authenticate(accessToken, refreshToken, account)
}

func (s *Service) fail(message string) Result {
	s.session.Fail(message)
	return failed(message)
}
