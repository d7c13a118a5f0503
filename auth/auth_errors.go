package auth

import "errors"

var (
	FieldsRequiredErr     = errors.New("All fields are required")
	PasswordTooShortErr   = errors.New("Password must be at least 6 characters")
	InvalidEmailErr       = errors.New("Invalid email address")
	MissingCredentialsErr = errors.New("Email and password are required")
	MissingProfileErr     = errors.New("response did not include a profile")
	NothingToUpdateErr    = errors.New("no profile fields to update")
)
