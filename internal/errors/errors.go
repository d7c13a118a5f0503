package errors

import (
	"errors"
	"fmt"
)

// Common error types for the sewtrack client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionEnded     = errors.New("session ended, log in again")

	// Token errors
	ErrTokenExpired        = errors.New("token expired")
	ErrNoRefreshToken      = errors.New("no refresh token")
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrInvalidTokenPayload = errors.New("invalid token payload")

	// Call lifecycle errors
	ErrInvalidTransition = errors.New("invalid call state transition")

	// Transport errors
	ErrNetwork = errors.New("network error")

	// Storage errors
	ErrStorage = errors.New("token storage error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
