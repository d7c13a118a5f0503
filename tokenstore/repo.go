package tokenstore

// Durable storage keys. Both are written together and cleared together.
const (
	AccessTokenKey  = "sewtrack_token"
	RefreshTokenKey = "sewtrack_refresh_token"
)

// Tokens is the access/refresh pair as it is persisted. An empty field means
// the key is absent from storage.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// IsEmpty reports whether neither token is present.
func (t Tokens) IsEmpty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// Repo persists the token pair across process runs.
// Implementations write both keys in a single operation: a Save with an empty
// RefreshToken removes the refresh key in the same write.
type Repo interface {
	// Load returns the persisted pair, or empty Tokens when nothing is stored
	Load() (Tokens, error)

	// Save replaces both keys
	Save(tokens Tokens) error

	// Clear removes both keys. Clearing an empty store is not an error.
	Clear() error
}
