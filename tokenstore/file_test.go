package tokenstore_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/tokenstore"
)

func testPair() session.TokenPair {
	return session.TokenPair{AccessToken: "access123", RefreshToken: "refresh123"}
}

func TestFile_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store, err := tokenstore.NewFile(path, tokenstore.WithPassphrase("hunter2"))
	require.NoError(t, err)

	require.NoError(t, store.Save(testPair()))

	pair, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testPair(), pair)
}

func TestFile_LoadMissingFile(t *testing.T) {
	store, err := tokenstore.NewFile(filepath.Join(t.TempDir(), "missing.enc"))
	require.NoError(t, err)

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFile_TokensNotStoredInClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store, err := tokenstore.NewFile(path, tokenstore.WithPassphrase("hunter2"))
	require.NoError(t, err)
	require.NoError(t, store.Save(testPair()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "access123")
	require.NotContains(t, string(raw), "refresh123")
}

func TestFile_WrongPassphraseFailsToDecrypt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store, err := tokenstore.NewFile(path, tokenstore.WithPassphrase("hunter2"))
	require.NoError(t, err)
	require.NoError(t, store.Save(testPair()))

	other, err := tokenstore.NewFile(path, tokenstore.WithPassphrase("*******"))
	require.NoError(t, err)
	_, _, err = other.Load()
	require.Error(t, err)
}

func TestFile_SaveReplacesPreviousPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store, err := tokenstore.NewFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(testPair()))
	rotated := session.TokenPair{AccessToken: "access456", RefreshToken: "refresh456"}
	require.NoError(t, store.Save(rotated))

	pair, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rotated, pair)
}

func TestFile_ClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")
	store, err := tokenstore.NewFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(testPair()))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFile_CreatesParentDirectoryWithOwnerOnlyPerms(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := filepath.Join(t.TempDir(), "nested", "config")
	path := filepath.Join(dir, "tokens.enc")
	store, err := tokenstore.NewFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(testPair()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewFile_RequiresPath(t *testing.T) {
	_, err := tokenstore.NewFile("")
	require.Error(t, err)
}
