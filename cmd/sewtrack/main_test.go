package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/sewtrack/internal/backendfake"
	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type cli struct {
	backend   *backendfake.Backend
	tokenFile string
	env       map[string]string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	backend := backendfake.New(t)
	tokenFile := filepath.Join(t.TempDir(), "tokens.json")
	return &cli{
		backend:   backend,
		tokenFile: tokenFile,
		env: map[string]string{
			"SEWTRACK_API_URL":    backend.URL(),
			"SEWTRACK_TOKEN_FILE": tokenFile,
			"SEWTRACK_LOG_LEVEL":  "error",
		},
	}
}

func (c *cli) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCommand(rootDeps{
		lookuper: envconfig.MapLookuper(c.env),
		stdout:   &stdout,
		stderr:   &stderr,
	})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (c *cli) storedTokens(t *testing.T) map[string]string {
	t.Helper()
	data, err := os.ReadFile(c.tokenFile)
	if os.IsNotExist(err) {
		return map[string]string{}
	}
	require.NoError(t, err)
	entries := map[string]string{}
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func (c *cli) login(t *testing.T) {
	t.Helper()
	c.backend.Handle(http.MethodPost, "/auth/login", backendfake.JSON(http.StatusOK, map[string]any{
		"token":        "tok1",
		"refreshToken": "ref1",
		"tailor":       map[string]string{"_id": "t1", "businessName": "Stitch & Co"},
	}))
	_, err := c.run("login", "--email", "a@b.com", "--password", "secret123")
	require.NoError(t, err)
}

func TestCLI_LoginPersistsSessionAcrossInvocations(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	require.Equal(t, map[string]string{"sewtrack_token": "tok1", "sewtrack_refresh_token": "ref1"}, c.storedTokens(t))

	out, err := c.run("status")
	require.NoError(t, err)
	var status statusView
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Equal(t, "authenticated", status.Status)
	require.True(t, status.HasRefresh)
	require.Equal(t, c.tokenFile, status.TokenFile)
	require.Empty(t, c.backend.Requests(http.MethodGet, "/auth/profile"), "status does not contact the backend")
}

func TestCLI_LoginFailureReportsBackendMessage(t *testing.T) {
	c := newCLI(t)
	c.backend.Handle(http.MethodPost, "/auth/login", backendfake.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"}))

	_, err := c.run("login", "--email", "a@b.com", "--password", "wrong")
	require.EqualError(t, err, "Invalid credentials")
	require.Empty(t, c.storedTokens(t))
}

func TestCLI_GuardedCommandRequiresLogin(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("clients", "list")
	require.ErrorIs(t, err, errNotLoggedIn)
	require.Equal(t, "not logged in, run 'sewtrack login' first", userMessage(err))
	require.Empty(t, c.backend.All())
}

func TestCLI_ExpiredTokenRefreshedDuringCommand(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.Handle(http.MethodGet, "/clients", backendfake.Bearer("tok2",
		backendfake.JSON(http.StatusOK, map[string]any{"clients": []map[string]string{{"name": "Ada"}}})))
	c.backend.Handle(http.MethodPost, "/auth/refresh", backendfake.JSON(http.StatusOK, map[string]string{"token": "tok2"}))

	out, err := c.run("clients", "list", "--search", "ada")
	require.NoError(t, err)
	require.JSONEq(t, `{"clients":[{"name":"Ada"}]}`, out)

	require.Equal(t, "limit=20&page=1&search=ada&status=active", c.backend.Requests(http.MethodGet, "/clients")[1].Query)
	require.Equal(t, map[string]string{"sewtrack_token": "tok2", "sewtrack_refresh_token": "ref1"}, c.storedTokens(t))
}

func TestCLI_SessionEndedDuringCommand(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.Handle(http.MethodGet, "/dashboard/overview", backendfake.JSON(http.StatusUnauthorized, map[string]string{"code": "INVALID_TOKEN"}))

	_, err := c.run("dashboard", "overview")
	require.ErrorIs(t, err, apperrors.ErrSessionEnded)
	require.Equal(t, "session expired, log in again", userMessage(err))
	require.Empty(t, c.storedTokens(t))

	_, err = c.run("dashboard", "overview")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLI_ProfileUpdateYAML(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.Handle(http.MethodPut, "/auth/profile", backendfake.JSON(http.StatusOK, map[string]any{
		"tailor": map[string]any{"_id": "t1", "businessName": "Stitch & Sons", "active": true},
	}))

	out, err := c.run("profile", "update", "--set", "businessName=Stitch & Sons", "--set", "active:=true", "-o", "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Equal(t, map[string]any{"_id": "t1", "businessName": "Stitch & Sons", "active": true}, decoded)
	require.NotContains(t, out, "{", "block style output")

	req := c.backend.Requests(http.MethodPut, "/auth/profile")[0]
	require.JSONEq(t, `{"businessName":"Stitch & Sons","active":true}`, string(req.Body))
}

func TestCLI_LogoutIsIdempotent(t *testing.T) {
	c := newCLI(t)
	c.login(t)

	_, err := c.run("logout")
	require.NoError(t, err)
	require.Empty(t, c.storedTokens(t))

	_, err = c.run("logout")
	require.NoError(t, err)
}

func TestCLI_RawCommand(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.Handle(http.MethodPost, "/expenses/bulk-delete", backendfake.JSON(http.StatusOK, map[string]int{"deleted": 2}))

	out, err := c.run("raw", "post", "expenses/bulk-delete?dryRun=false", "--data", `{"ids":["e1","e2"]}`)
	require.NoError(t, err)
	require.JSONEq(t, `{"deleted":2}`, out)

	req := c.backend.Requests(http.MethodPost, "/expenses/bulk-delete")[0]
	require.Equal(t, "dryRun=false", req.Query)
	require.JSONEq(t, `{"ids":["e1","e2"]}`, string(req.Body))
}

func TestCLI_DeleteSeveralClients(t *testing.T) {
	c := newCLI(t)
	c.login(t)
	c.backend.Handle(http.MethodDelete, "/clients/c1", backendfake.JSON(http.StatusOK, map[string]string{"message": "Client deleted"}))
	c.backend.Handle(http.MethodDelete, "/clients/c2", backendfake.JSON(http.StatusNotFound, map[string]string{"message": "Client not found"}))

	out, err := c.run("clients", "delete", "c1", "c2")
	require.EqualError(t, err, "1 of 2 failed")
	require.JSONEq(t, `{"success":1,"failed":1,"errors":[{"id":"c2","error":"Client not found"}]}`, out)

	out, err = c.run("clients", "delete", "c1")
	require.NoError(t, err)
	require.JSONEq(t, `{"success":1,"failed":0,"errors":[]}`, out)
}

func TestUserMessage_NetworkHint(t *testing.T) {
	err := fmt.Errorf("%w: GET /clients: connection refused", apperrors.ErrNetwork)
	require.Equal(t, "could not reach the server, check SEWTRACK_API_URL and your connection", userMessage(err))
}

func TestCLI_UnknownOutputFormat(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("status", "-o", "xml")
	require.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	fields, err := parseAssignments([]string{
		"name=Ada", "phone=2348012345678", "quantity:=5", "active:=false", "note=a=b", "tags:=[\"x\"]",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":     "Ada",
		"phone":    "2348012345678",
		"quantity": json.Number("5"),
		"active":   false,
		"note":     "a=b",
		"tags":     []any{"x"},
	}, fields)

	big, err := parseAssignments([]string{"amount:=90071992547409931"})
	require.NoError(t, err)
	encoded, err := json.Marshal(big)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":90071992547409931}`, string(encoded))

	for _, bad := range []string{"novalue", ":=1", "count:=abc", "count:=1 2"} {
		_, err = parseAssignments([]string{bad})
		require.Error(t, err, bad)
	}
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "Client not found", userMessage(apperrors.NewAPIError(http.StatusNotFound, []byte(`{"message":"Client not found"}`))))
}
