// Package cryptox keeps small secrets (the session token) sealed at rest.
//
// A random per-device key is stored next to the local database and used with
// XChaCha20-Poly1305. This protects the token against casual reads of the
// database file, not against an attacker who can read the whole data dir.
package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of the device key in bytes.
const KeySize = chacha20poly1305.KeySize

var (
	ErrInvalidKey    = errors.New("invalid key size")
	ErrShortSealed   = errors.New("sealed data too short")
	ErrDecryptFailed = errors.New("decryption failed")
)

// GenerateRandByteArray returns size bytes from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return b
}

// LoadOrCreateKey reads the device key from path, creating it with mode 0600
// when the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("%s: %w", path, ErrInvalidKey)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating key dir: %w", err)
	}
	key = GenerateRandByteArray(KeySize)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("writing key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with key and returns nonce||ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, ErrInvalidKey
	}
	nonce := GenerateRandByteArray(aead.NonceSize())
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrShortSealed
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

// WipeByteArray zeroes b, e.g. a password once it has been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
