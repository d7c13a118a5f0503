package session

import (
	"encoding/json"
	"fmt"
)

// AccountProfile is the authenticated business (the backend's "tailor").
type AccountProfile struct {
	ID             string `json:"_id,omitempty"`
	BusinessName   string `json:"businessName,omitempty"`
	OwnerName      string `json:"ownerName,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	WhatsappNumber string `json:"whatsappNumber,omitempty"`

	// Raw is the profile exactly as the backend sent it, including fields
	// not mapped above.
	Raw json.RawMessage `json:"-"`
}

// ParseAccount decodes a backend profile object. A null or empty payload
// yields nil.
func ParseAccount(raw json.RawMessage) (*AccountProfile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var account AccountProfile
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("[ParseAccount] %w", err)
	}
	account.Raw = append(json.RawMessage(nil), raw...)
	return &account, nil
}

func (a *AccountProfile) clone() *AccountProfile {
	if a == nil {
		return nil
	}
	c := *a
	c.Raw = append(json.RawMessage(nil), a.Raw...)
	return &c
}
