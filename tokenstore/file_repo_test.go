package tokenstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/sewtrack/tokenstore"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) (*tokenstore.FileRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	return tokenstore.NewFileRepo(path), path
}

func readEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := map[string]string{}
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestFileRepo_LoadMissingFile(t *testing.T) {
	repo, _ := newFileRepo(t)

	tokens, err := repo.Load()
	require.NoError(t, err)
	require.True(t, tokens.IsEmpty())
}

func TestFileRepo_SaveWritesBothKeys(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.Save(tokenstore.Tokens{AccessToken: "tok1", RefreshToken: "ref1"}))

	entries := readEntries(t, path)
	require.Equal(t, "tok1", entries[tokenstore.AccessTokenKey])
	require.Equal(t, "ref1", entries[tokenstore.RefreshTokenKey])

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tokens, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, tokenstore.Tokens{AccessToken: "tok1", RefreshToken: "ref1"}, tokens)
}

func TestFileRepo_SaveWithoutRefreshRemovesKey(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.Save(tokenstore.Tokens{AccessToken: "tok1", RefreshToken: "ref1"}))
	require.NoError(t, repo.Save(tokenstore.Tokens{AccessToken: "tok2"}))

	entries := readEntries(t, path)
	require.Equal(t, "tok2", entries[tokenstore.AccessTokenKey])
	_, ok := entries[tokenstore.RefreshTokenKey]
	require.False(t, ok)
}

func TestFileRepo_ClearIsIdempotent(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.Save(tokenstore.Tokens{AccessToken: "tok1", RefreshToken: "ref1"}))
	require.NoError(t, repo.Clear())
	require.NoError(t, repo.Clear())

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileRepo_SaveEmptyClears(t *testing.T) {
	repo, path := newFileRepo(t)

	require.NoError(t, repo.Save(tokenstore.Tokens{AccessToken: "tok1", RefreshToken: "ref1"}))
	require.NoError(t, repo.Save(tokenstore.Tokens{}))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFileRepo_LoadCorruptFile(t *testing.T) {
	repo, path := newFileRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := repo.Load()
	require.Error(t, err)
}
