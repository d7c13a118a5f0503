package auth_test

import (
	"testing"

	"github.com/jrsteele09/sewtrack/auth"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateEmail(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateEmail("a@b.com"))
	require.NoError(t, v.ValidateEmail("owner.name+shop@tailor.co.uk"))

	for _, bad := range []string{"", "a@b", "ab.com", "Ada <a@b.com>", "a b@c.com"} {
		require.ErrorIs(t, v.ValidateEmail(bad), auth.InvalidEmailErr, bad)
	}
}

func TestValidator_ValidateLogin(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateLogin("a@b.com", "x"))
	require.ErrorIs(t, v.ValidateLogin(" ", "x"), auth.MissingCredentialsErr)
	require.ErrorIs(t, v.ValidateLogin("a@b.com", ""), auth.MissingCredentialsErr)
}

func TestValidator_ValidateSignupPasswordBoundary(t *testing.T) {
	v := auth.NewValidator()
	req := validSignup()

	req.Password = "123456"
	require.NoError(t, v.ValidateSignup(req))

	req.Password = "12345"
	require.ErrorIs(t, v.ValidateSignup(req), auth.PasswordTooShortErr)

	// characters, not bytes
	req.Password = "ééé"
	require.ErrorIs(t, v.ValidateSignup(req), auth.PasswordTooShortErr)

	req.Password = "éééééé"
	require.NoError(t, v.ValidateSignup(req))
}
