package credstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/nesirat/MCP/internal/core/domain"
)

// File names inside the MCP home directory.
const (
	credentialsFile = "credentials"
	keyFile         = "store.key"
)

// FileBackend is the durable storage scope. The token is encrypted at
// rest with ChaCha20-Poly1305; the cipher key lives next to it with
// 0600 permissions, generated on first use.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the credentials file path.
func (f *FileBackend) Path() string {
	return filepath.Join(f.dir, credentialsFile)
}

// Write encrypts and stores the token.
func (f *FileBackend) Write(token string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}

	key, err := f.loadOrCreateKey()
	if err != nil {
		return err
	}

	sealed, err := seal(key, []byte(token))
	if err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}

	if err := os.WriteFile(f.Path(), sealed, 0o600); err != nil {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

// Read decrypts and returns the stored token, or "" when absent.
func (f *FileBackend) Read() (string, error) {
	sealed, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", domain.ErrStorageUnavailable.WithCause(err)
	}

	key, err := f.loadKey()
	if err != nil {
		return "", err
	}

	token, err := open(key, sealed)
	if err != nil {
		// Undecryptable credentials are as good as absent; the key file
		// may have been rotated or the payload truncated.
		return "", domain.ErrStorageUnavailable.WithCause(err)
	}
	return string(token), nil
}

// Delete removes the stored token. The cipher key is kept.
func (f *FileBackend) Delete() error {
	err := os.Remove(f.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}

func (f *FileBackend) keyPath() string {
	return filepath.Join(f.dir, keyFile)
}

func (f *FileBackend) loadKey() ([]byte, error) {
	key, err := os.ReadFile(f.keyPath())
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, domain.ErrStorageUnavailable.WithDetails("cipher key has wrong size")
	}
	return key, nil
}

func (f *FileBackend) loadOrCreateKey() ([]byte, error) {
	key, err := os.ReadFile(f.keyPath())
	if err == nil && len(key) == chacha20poly1305.KeySize {
		return key, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	if err := os.WriteFile(f.keyPath(), key, 0o600); err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	return key, nil
}

// seal encrypts plaintext, prepending the random nonce to the result.
func seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a payload produced by seal.
func open(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed payload too short: %d bytes", len(sealed))
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
