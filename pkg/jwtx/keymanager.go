package jwtx

import (
	"fmt"

	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/awnumar/memguard"
)

// hmacKeySize is the HS256 key length in bytes.
const hmacKeySize = 32

// KeyManager owns the signing key for a process. The key is generated at
// startup and only ever held in memory, so restarting the service
// invalidates every outstanding session token.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier

	key *hmacKey
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Issuer is stamped into every token and enforced on verification.
	Issuer string
}

// NewEphemeralKeyManager generates a random HS256 key sealed in a memguard
// enclave and wires a signer and verifier around it.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	kid, err := cryptox.RandomString(16)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
	}

	key := &hmacKey{
		kid:     "credvault-" + kid,
		enclave: memguard.NewEnclaveRandom(hmacKeySize),
	}

	return &KeyManager{
		Signer:   &HS256Signer{key: key},
		Verifier: &HS256Verifier{key: key, issuer: opts.Issuer},
		key:      key,
	}, nil
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string { return AlgorithmHS256 }

// KID returns the identifier of the active key.
func (km *KeyManager) KID() string { return km.key.kid }

// IsReady reports whether the key can be opened.
func (km *KeyManager) IsReady() bool {
	if km == nil || km.key == nil || km.key.enclave == nil {
		return false
	}
	return km.key.with(func(key []byte) error {
		if len(key) != hmacKeySize {
			return fmt.Errorf("jwtx: unexpected key size %d", len(key))
		}
		return nil
	}) == nil
}
