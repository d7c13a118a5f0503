package auth

import "encoding/json"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /auth/signup. Every field is required.
type SignupRequest struct {
	BusinessName   string `json:"businessName"`
	OwnerName      string `json:"ownerName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	WhatsappNumber string `json:"whatsappNumber"`
}

// TokenResponse is returned by login and signup.
type TokenResponse struct {
	// Token is the short-lived access token sent as "Authorization: Bearer <token>".
	Token string `json:"token"`

	// RefreshToken exchanges for a new access token at /auth/refresh.
	// Signup does not return one.
	RefreshToken string `json:"refreshToken,omitempty"`

	// Tailor is the authenticated account.
	Tailor json.RawMessage `json:"tailor,omitempty"`
}

// ProfileResponse is returned by GET and PUT /auth/profile.
type ProfileResponse struct {
	Tailor json.RawMessage `json:"tailor"`
}

// Result is what every session operation resolves to. Error is the message
// to show the user when Success is false.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(message string) Result {
	return Result{Success: false, Error: message}
}
