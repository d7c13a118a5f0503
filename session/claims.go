package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry returns the exp claim of the access token. The signature
// is not verified; the value is informational and never used to skip a request.
// ok is false for opaque tokens or tokens without exp.
func (s *Session) AccessTokenExpiry() (expiry time.Time, ok bool) {
	raw := s.AccessToken()
	if raw == "" {
		return time.Time{}, false
	}

	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
