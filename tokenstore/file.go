// Package tokenstore persists the session token pair across client restarts.
// The pair is a set of live bearer credentials, so the file implementation
// encrypts it at rest.
package tokenstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/investai/investai-go/session"
)

var _ session.TokenStore = (*File)(nil)

// scrypt parameters, interactive-strength (the threat model is a copied
// file, not an online oracle).
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// defaultKey protects installations that never set a passphrase. It only
// obfuscates; real at-rest protection requires a user-supplied key.
const defaultKey = "investai-local-token-store"

// envelope is the on-disk JSON layout.
type envelope struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// File stores the token pair in a single encrypted file (scrypt-derived key,
// XChaCha20-Poly1305 AEAD, 0600 permissions, atomic replace).
type File struct {
	path       string
	passphrase []byte
}

// FileOption configures a File store.
type FileOption func(*File)

// WithPassphrase sets the encryption passphrase. An empty passphrase keeps
// the built-in default key.
func WithPassphrase(passphrase string) FileOption {
	return func(f *File) {
		if passphrase != "" {
			f.passphrase = []byte(passphrase)
		}
	}
}

// NewFile creates a file-backed token store at the given path.
func NewFile(path string, options ...FileOption) (*File, error) {
	if path == "" {
		return nil, errors.New("[tokenstore.NewFile] path is required")
	}
	f := &File{path: path, passphrase: []byte(defaultKey)}
	for _, opt := range options {
		opt(f)
	}
	return f, nil
}

// Save encrypts and writes the pair, replacing any previous one.
func (f *File) Save(pair session.TokenPair) error {
	plaintext, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[File.Save] marshal pair")
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "[File.Save] salt")
	}
	key, err := f.deriveKey(salt)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return errors.Wrap(err, "[File.Save] aead")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[File.Save] nonce")
	}

	data, err := json.Marshal(envelope{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
	})
	if err != nil {
		return errors.Wrap(err, "[File.Save] marshal envelope")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[File.Save] create directory")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[File.Save] write")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "[File.Save] rename")
	}
	return nil
}

// Load reads and decrypts the stored pair. A missing file is not an error;
// it reports no pair present.
func (f *File) Load() (session.TokenPair, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return session.TokenPair{}, false, nil
	}
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] read")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] unmarshal envelope")
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] decode salt")
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] decode nonce")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] decode ciphertext")
	}

	key, err := f.deriveKey(salt)
	if err != nil {
		return session.TokenPair{}, false, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] aead")
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] decrypt")
	}

	var pair session.TokenPair
	if err := json.Unmarshal(plaintext, &pair); err != nil {
		return session.TokenPair{}, false, errors.Wrap(err, "[File.Load] unmarshal pair")
	}
	return pair, true, nil
}

// Clear removes the stored pair. Clearing an empty store is a no-op.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[File.Clear] remove")
	}
	return nil
}

func (f *File) deriveKey(salt []byte) ([]byte, error) {
	key, err := scrypt.Key(f.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[tokenstore] derive key")
	}
	return key, nil
}
