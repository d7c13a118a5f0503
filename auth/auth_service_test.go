package auth_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/jrsteele09/sewtrack/auth"
	"github.com/jrsteele09/sewtrack/internal/backendfake"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/jrsteele09/sewtrack/session"
	"github.com/jrsteele09/sewtrack/tokenstore"
	tokenstorefake "github.com/jrsteele09/sewtrack/tokenstore/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@b.com"
	testPassword = "secret123"
	testAccess   = "tok1"
	testRefresh  = "ref1"
)

var testTailor = map[string]any{
	"_id":            "t1",
	"businessName":   "Stitch & Co",
	"ownerName":      "Ada Obi",
	"email":          testEmail,
	"phone":          "08012345678",
	"whatsappNumber": "08012345678",
	"address":        "12 Market Road",
}

type navRecorder struct {
	mu     sync.Mutex
	events []navigation.Event
}

func (n *navRecorder) Navigate(ev navigation.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *navRecorder) Events() []navigation.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navigation.Event(nil), n.events...)
}

// testFixture holds all test dependencies
type testFixture struct {
	backend *backendfake.Backend
	store   *tokenstorefake.FakeTokenStore
	session *session.Session
	nav     *navRecorder
	service *auth.Service
}

func setupTestFixture(t *testing.T, stored tokenstore.Tokens) *testFixture {
	t.Helper()

	f := &testFixture{
		backend: backendfake.New(t),
		store:   tokenstorefake.NewFakeTokenStoreWith(stored),
		nav:     &navRecorder{},
	}
	f.session = session.New(f.store)

	client, err := apiclient.New(f.backend.URL(), f.session,
		apiclient.WithNavigator(f.nav),
		apiclient.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	f.service, err = auth.NewService(f.session, client,
		auth.WithNavigator(f.nav),
		auth.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	require.True(t, f.service.InitializeAuth().Success)
	return f
}

func (f *testFixture) handleLogin() {
	f.backend.Handle(http.MethodPost, "/auth/login", backendfake.JSON(http.StatusOK, map[string]any{
		"token":        testAccess,
		"refreshToken": testRefresh,
		"tailor":       testTailor,
	}))
}

// requireEmpty checks the session and storage hold nothing.
func (f *testFixture) requireEmpty(t *testing.T) {
	t.Helper()
	snap := f.session.Snapshot()
	require.Empty(t, snap.AccessToken)
	require.Empty(t, snap.RefreshToken)
	require.Nil(t, snap.Account)
	require.Equal(t, session.StatusAnonymous, snap.Status)
	require.Empty(t, f.store.Entries())
}

func TestNewService_Validation(t *testing.T) {
	sess := session.New(tokenstorefake.NewFakeTokenStore())
	client, err := apiclient.New("http://localhost:5000/api", sess)
	require.NoError(t, err)

	_, err = auth.NewService(nil, client)
	require.Error(t, err)

	_, err = auth.NewService(sess, nil)
	require.Error(t, err)

	s, err := auth.NewService(sess, client)
	require.NoError(t, err)
	require.Same(t, sess, s.Session())
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{})
	f.handleLogin()

	result := f.service.Login(context.Background(), testEmail, testPassword)
	require.Equal(t, auth.Result{Success: true}, result)

	snap := f.session.Snapshot()
	require.Equal(t, testAccess, snap.AccessToken)
	require.Equal(t, testRefresh, snap.RefreshToken)
	require.Equal(t, session.StatusAuthenticated, snap.Status)
	require.Empty(t, snap.LastError)
	require.NotNil(t, snap.Account)
	require.Equal(t, "t1", snap.Account.ID)
	require.Equal(t, "Stitch & Co", snap.Account.BusinessName)
	require.Contains(t, string(snap.Account.Raw), "12 Market Road")

	require.Equal(t, map[string]string{
		tokenstore.AccessTokenKey:  testAccess,
		tokenstore.RefreshTokenKey: testRefresh,
	}, f.store.Entries())
	require.Equal(t, 1, f.store.Saves(), "both tokens written together")

	req := f.backend.Requests(http.MethodPost, "/auth/login")[0]
	require.JSONEq(t, `{"email":"a@b.com","password":"secret123"}`, string(req.Body))
	require.Empty(t, req.Authorization)
}

func TestLogin_ReplacesExistingSession(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: "old", RefreshToken: "old-ref"})
	f.handleLogin()

	require.True(t, f.service.Login(context.Background(), testEmail, testPassword).Success)

	req := f.backend.Requests(http.MethodPost, "/auth/login")[0]
	require.Empty(t, req.Authorization, "credentials are sent without the previous token")
	require.Equal(t, testAccess, f.session.AccessToken())
	require.Equal(t, testRefresh, f.session.RefreshToken())
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name:     "backend message",
			email:    testEmail,
			handler:  backendfake.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"}),
			expected: "Invalid credentials",
		},
		{
			name:     "no message falls back",
			email:    testEmail,
			handler:  backendfake.JSON(http.StatusInternalServerError, map[string]string{}),
			expected: "Login failed",
		},
		{
			name:     "missing token in response",
			email:    testEmail,
			handler:  backendfake.JSON(http.StatusOK, map[string]any{"tailor": testTailor}),
			expected: "Login failed",
		},
		{
			name:     "missing credentials",
			email:    "",
			expected: auth.MissingCredentialsErr.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, tokenstore.Tokens{})
			if tt.handler != nil {
				f.backend.Handle(http.MethodPost, "/auth/login", tt.handler)
			}

			result := f.service.Login(context.Background(), tt.email, testPassword)
			require.Equal(t, auth.Result{Success: false, Error: tt.expected}, result)
			require.Equal(t, tt.expected, f.session.LastError())
			require.Equal(t, session.StatusAnonymous, f.session.Status())
			require.Empty(t, f.session.AccessToken())
			require.Nil(t, f.session.Account())
			require.Empty(t, f.store.Entries())
			require.Empty(t, f.nav.Events(), "a rejected login is not a session teardown")
		})
	}
}

func TestLogin_NetworkFailure(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{})
	f.backend.Server.Close()

	result := f.service.Login(context.Background(), testEmail, testPassword)
	require.False(t, result.Success)
	require.Equal(t, "Login failed", result.Error)
}

func TestSignup_PersistsOnlyAccessToken(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: "stale", RefreshToken: "stale-ref"})
	f.backend.Handle(http.MethodPost, "/auth/signup", backendfake.JSON(http.StatusCreated, map[string]any{
		"token":  "fresh",
		"tailor": testTailor,
	}))

	result := f.service.Signup(context.Background(), validSignup())
	require.True(t, result.Success)

	require.Equal(t, "fresh", f.session.AccessToken())
	require.Empty(t, f.session.RefreshToken())
	require.Equal(t, "Ada Obi", f.session.Account().OwnerName)
	require.Equal(t, map[string]string{tokenstore.AccessTokenKey: "fresh"}, f.store.Entries())

	req := f.backend.Requests(http.MethodPost, "/auth/signup")[0]
	require.JSONEq(t, `{
		"businessName":"Stitch & Co","ownerName":"Ada Obi","email":"a@b.com",
		"password":"secret123","phone":"08012345678","whatsappNumber":"08012345678"
	}`, string(req.Body))
}

func TestSignup_Failures(t *testing.T) {
	short := validSignup()
	short.Password = "12345"
	missing := validSignup()
	missing.WhatsappNumber = " "
	badEmail := validSignup()
	badEmail.Email = "not-an-email"

	tests := []struct {
		name     string
		req      auth.SignupRequest
		handler  http.HandlerFunc
		expected string
	}{
		{name: "missing field", req: missing, expected: auth.FieldsRequiredErr.Error()},
		{name: "short password", req: short, expected: auth.PasswordTooShortErr.Error()},
		{name: "bad email", req: badEmail, expected: auth.InvalidEmailErr.Error()},
		{
			name:     "backend message",
			req:      validSignup(),
			handler:  backendfake.JSON(http.StatusBadRequest, map[string]string{"message": "Email already registered"}),
			expected: "Email already registered",
		},
		{
			name:     "fallback",
			req:      validSignup(),
			handler:  backendfake.JSON(http.StatusBadGateway, nil),
			expected: "Signup failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, tokenstore.Tokens{})
			if tt.handler != nil {
				f.backend.Handle(http.MethodPost, "/auth/signup", tt.handler)
			}

			result := f.service.Signup(context.Background(), tt.req)
			require.Equal(t, auth.Result{Success: false, Error: tt.expected}, result)
			require.Equal(t, tt.expected, f.session.LastError())
			if tt.handler == nil {
				require.Zero(t, f.backend.Count(http.MethodPost, "/auth/signup"), "invalid forms are not sent")
			}
			f.requireEmpty(t)
		})
	}
}

func TestFetchProfile_ReplacesAccount(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})
	f.backend.Handle(http.MethodGet, "/auth/profile", backendfake.Bearer(testAccess,
		backendfake.JSON(http.StatusOK, map[string]any{"tailor": testTailor})))

	require.Nil(t, f.session.Account(), "rehydration does not fetch the profile")
	require.True(t, f.service.FetchProfile(context.Background()).Success)
	require.Equal(t, "t1", f.session.Account().ID)
}

func TestFetchProfile_FailureKeepsTokens(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})
	f.backend.Handle(http.MethodGet, "/auth/profile", backendfake.JSON(http.StatusInternalServerError, map[string]string{"message": "database down"}))

	result := f.service.FetchProfile(context.Background())
	require.False(t, result.Success)
	require.Equal(t, "database down", result.Error)

	snap := f.session.Snapshot()
	require.Equal(t, testAccess, snap.AccessToken)
	require.Equal(t, testRefresh, snap.RefreshToken)
	require.Equal(t, "database down", snap.LastError)
	require.Equal(t, map[string]string{
		tokenstore.AccessTokenKey:  testAccess,
		tokenstore.RefreshTokenKey: testRefresh,
	}, f.store.Entries())
	require.Empty(t, f.nav.Events())
}

func TestFetchProfile_RefreshesExpiredTokenTransparently(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})
	f.backend.Handle(http.MethodGet, "/auth/profile", backendfake.Bearer("tok2",
		backendfake.JSON(http.StatusOK, map[string]any{"tailor": testTailor})))
	f.backend.Handle(http.MethodPost, "/auth/refresh", backendfake.JSON(http.StatusOK, map[string]string{"token": "tok2"}))

	require.True(t, f.service.FetchProfile(context.Background()).Success)
	require.Equal(t, "tok2", f.session.AccessToken())
	require.NotNil(t, f.session.Account())
}

// A teardown during a profile fetch leaves no account behind.
func TestFetchProfile_TeardownLeavesNoAccount(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})
	f.backend.Handle(http.MethodGet, "/auth/profile", backendfake.JSON(http.StatusUnauthorized, map[string]string{"code": "INVALID_TOKEN"}))

	require.False(t, f.service.FetchProfile(context.Background()).Success)

	require.Empty(t, f.session.AccessToken())
	require.Nil(t, f.session.Account())
	require.Empty(t, f.store.Entries())
	require.Equal(t, []navigation.Event{{To: navigation.RouteLogin, Reason: navigation.ReasonSessionEnded}}, f.nav.Events())
}

func TestUpdateProfile(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{})
	f.handleLogin()
	require.True(t, f.service.Login(context.Background(), testEmail, testPassword).Success)

	updated := map[string]any{"_id": "t1", "businessName": "Stitch & Sons", "email": testEmail}
	f.backend.Handle(http.MethodPut, "/auth/profile", backendfake.JSON(http.StatusOK, map[string]any{"tailor": updated}))

	result := f.service.UpdateProfile(context.Background(), map[string]any{"businessName": "Stitch & Sons"})
	require.True(t, result.Success)
	require.Equal(t, "Stitch & Sons", f.session.Account().BusinessName)
	require.Empty(t, f.session.Account().OwnerName, "server copy replaces the account")

	req := f.backend.Requests(http.MethodPut, "/auth/profile")[0]
	require.Equal(t, "Bearer "+testAccess, req.Authorization)
	require.JSONEq(t, `{"businessName":"Stitch & Sons"}`, string(req.Body))
}

func TestUpdateProfile_Failure(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})
	f.backend.Handle(http.MethodPut, "/auth/profile", backendfake.JSON(http.StatusBadRequest, nil))

	result := f.service.UpdateProfile(context.Background(), map[string]any{"phone": "1"})
	require.Equal(t, auth.Result{Success: false, Error: "Update failed"}, result)
	require.Equal(t, testAccess, f.session.AccessToken())

	result = f.service.UpdateProfile(context.Background(), nil)
	require.Equal(t, auth.Result{Success: false, Error: auth.NothingToUpdateErr.Error()}, result)
}

func TestLogout_Idempotent(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{})
	f.handleLogin()
	require.True(t, f.service.Login(context.Background(), testEmail, testPassword).Success)

	require.True(t, f.service.Logout().Success)
	f.requireEmpty(t)
	require.Equal(t, []navigation.Event{{To: navigation.RouteLogin, Reason: navigation.ReasonLoggedOut}}, f.nav.Events())

	before := f.session.Snapshot()
	require.True(t, f.service.Logout().Success)
	require.Equal(t, before, f.session.Snapshot())
	f.requireEmpty(t)
	require.Len(t, f.nav.Events(), 1, "second logout is a no-op")
}

func TestLogout_ClearsLastError(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{})
	require.False(t, f.service.Login(context.Background(), "", "").Success)
	require.NotEmpty(t, f.session.LastError())

	f.service.Logout()
	require.Empty(t, f.session.LastError())
}

func TestInitializeAuth_Rehydrates(t *testing.T) {
	f := setupTestFixture(t, tokenstore.Tokens{AccessToken: testAccess, RefreshToken: testRefresh})

	require.Equal(t, testAccess, f.session.AccessToken())
	require.Equal(t, testRefresh, f.session.RefreshToken())
	require.Nil(t, f.session.Account())
	require.Empty(t, f.backend.All(), "no network on start-up")
}

func validSignup() auth.SignupRequest {
	return auth.SignupRequest{
		BusinessName:   "Stitch & Co",
		OwnerName:      "Ada Obi",
		Email:          testEmail,
		Password:       testPassword,
		Phone:          "08012345678",
		WhatsappNumber: "08012345678",
	}
}
