package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileRepo stores the token pair as a JSON object keyed by AccessTokenKey and
// RefreshTokenKey. Writes go through a temp file and rename so a reader never
// sees one key without the other.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

var _ Repo = (*FileRepo)(nil)

// NewFileRepo returns a repo backed by the file at path. The file and its
// directory are created on first Save.
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

// Path returns the backing file location.
func (r *FileRepo) Path() string {
	return r.path
}

func (r *FileRepo) Load() (Tokens, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("[FileRepo Load] read %s: %w", r.path, err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return Tokens{}, fmt.Errorf("[FileRepo Load] parse %s: %w", r.path, err)
	}

	return Tokens{
		AccessToken:  entries[AccessTokenKey],
		RefreshToken: entries[RefreshTokenKey],
	}, nil
}

func (r *FileRepo) Save(tokens Tokens) error {
	if tokens.IsEmpty() {
		return r.Clear()
	}

	entries := map[string]string{AccessTokenKey: tokens.AccessToken}
	if tokens.RefreshToken != "" {
		entries[RefreshTokenKey] = tokens.RefreshToken
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("[FileRepo Save] marshal: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[FileRepo Save] create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("[FileRepo Save] create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileRepo Save] write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileRepo Save] chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileRepo Save] close: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("[FileRepo Save] rename: %w", err)
	}
	return nil
}

func (r *FileRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[FileRepo Clear] remove %s: %w", r.path, err)
	}
	return nil
}
