package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const minPasswordLength = 6

// Validator holds the checks made before a credential request is sent.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLogin requires both credentials.
func (v *Validator) ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return MissingCredentialsErr
	}
	return nil
}

// ValidateSignup applies the registration form rules: every field present,
// a well formed email and a password of at least six characters.
func (v *Validator) ValidateSignup(req SignupRequest) error {
	for _, field := range []string{req.BusinessName, req.OwnerName, req.Email, req.Password, req.Phone, req.WhatsappNumber} {
		if strings.TrimSpace(field) == "" {
			return FieldsRequiredErr
		}
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return PasswordTooShortErr
	}
	return v.ValidateEmail(req.Email)
}

// ValidateEmail accepts a bare address only, no display name.
func (v *Validator) ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return InvalidEmailErr
	}
	return nil
}
