package tokenstorefake

import (
	"sync"

	"github.com/jrsteele09/sewtrack/tokenstore"
)

var _ tokenstore.Repo = (*FakeTokenStore)(nil)

// FakeTokenStore keeps the storage keys in a map, like the browser's local storage.
type FakeTokenStore struct {
	entries map[string]string
	saves   int
	clears  int
	lock    sync.RWMutex
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{
		entries: make(map[string]string),
	}
}

// NewFakeTokenStoreWith returns a store pre-populated with tokens, as if a
// previous run had logged in.
func NewFakeTokenStoreWith(tokens tokenstore.Tokens) *FakeTokenStore {
	s := NewFakeTokenStore()
	s.write(tokens)
	return s
}

func (s *FakeTokenStore) Load() (tokenstore.Tokens, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return tokenstore.Tokens{
		AccessToken:  s.entries[tokenstore.AccessTokenKey],
		RefreshToken: s.entries[tokenstore.RefreshTokenKey],
	}, nil
}

func (s *FakeTokenStore) Save(tokens tokenstore.Tokens) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.saves++
	s.write(tokens)
	return nil
}

func (s *FakeTokenStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.clears++
	delete(s.entries, tokenstore.AccessTokenKey)
	delete(s.entries, tokenstore.RefreshTokenKey)
	return nil
}

// Entries returns a copy of the raw key/value entries.
func (s *FakeTokenStore) Entries() map[string]string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *FakeTokenStore) Saves() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.saves
}

func (s *FakeTokenStore) Clears() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.clears
}

func (s *FakeTokenStore) write(tokens tokenstore.Tokens) {
	setOrDelete := func(key, value string) {
		if value == "" {
			delete(s.entries, key)
			return
		}
		s.entries[key] = value
	}
	setOrDelete(tokenstore.AccessTokenKey, tokens.AccessToken)
	setOrDelete(tokenstore.RefreshTokenKey, tokens.RefreshToken)
}
