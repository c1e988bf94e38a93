package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// sealPrefix versions the sealed format so the key or cipher can change later.
const sealPrefix = "v1."

const secretBoxInfo = "credvault account secrets v1"

var (
	ErrSealedMalformed = errors.New("cryptox: sealed value malformed")
	ErrSealedOpen      = errors.New("cryptox: sealed value failed authentication")
)

// SecretBox seals short secrets with AES-256-GCM. The key is derived with
// HKDF-SHA256 from the configured master key material.
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox derives a sealing key from master. master must not be empty.
func NewSecretBox(master []byte) (*SecretBox, error) {
	if len(master) == 0 {
		return nil, errors.New("cryptox: empty master key")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(secretBoxInfo)), key); err != nil {
		return nil, fmt.Errorf("cryptox: derive sealing key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}
	return &SecretBox{aead: gcm}, nil
}

// Seal encrypts plaintext. The output layout is [nonce][ciphertext][tag].
func (b *SecretBox) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func (b *SecretBox) Open(sealed []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(sealed) < ns+b.aead.Overhead() {
		return nil, ErrSealedMalformed
	}
	plaintext, err := b.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, ErrSealedOpen
	}
	return plaintext, nil
}

// SealString seals s and returns "v1." followed by the base64url sealed bytes.
func (b *SecretBox) SealString(s string) (string, error) {
	sealed, err := b.Seal([]byte(s))
	if err != nil {
		return "", err
	}
	return sealPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func (b *SecretBox) OpenString(s string) (string, error) {
	encoded, ok := strings.CutPrefix(s, sealPrefix)
	if !ok {
		return "", ErrSealedMalformed
	}
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrSealedMalformed
	}
	plaintext, err := b.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// LoadMasterKey returns master key material from, in order: the file at path,
// the envVar environment variable. ephemeral reports that neither was set and a
// random key was generated, which means sealed data will not survive a restart.
func LoadMasterKey(path, envVar string) (key []byte, ephemeral bool, err error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("cryptox: read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, false, fmt.Errorf("cryptox: master key file %s is empty", path)
		}
		return data, false, nil
	}

	if v := os.Getenv(envVar); v != "" {
		return []byte(v), false, nil
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("cryptox: generate ephemeral master key: %w", err)
	}
	return key, true, nil
}
