package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// Bounds on parameters read back from a stored hash. Anything outside them is
// treated as malformed rather than handed to argon2, which would happily
// allocate terabytes or spin for hours on a corrupt row.
const (
	maxMemory        = 256 * 1024 // KiB
	maxIterations    = 16
	maxParallelism   = 16
	minSaltLength    = 8
	maxSaltLength    = 64
	maxHashKeyLength = 128
)

var errMalformedHash = errors.New("cryptox: malformed password hash")

// PasswordHasher hashes administrator passwords with Argon2id. Every hash mixes
// in the server pepper, so a leaked database alone is not enough to mount an
// offline attack.
type PasswordHasher struct {
	Pepper string
}

// NewPasswordHasher returns a hasher bound to pepper.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{Pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
// A fresh salt is drawn on every call, so hashing the same password twice never
// yields the same string.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}
	hash := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether encodedHash was derived from password. Malformed hashes
// verify as false. Bcrypt hashes from the legacy service are accepted as well;
// they were produced without the pepper.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	if isBcrypt(encodedHash) {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	}

	params, salt, expected, err := decodeArgon2id(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		uint32(len(expected)), // #nosec G115 - bounded by decodeArgon2id
	)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// NeedsRehash reports whether encodedHash should be replaced with a fresh
// Argon2id hash using the current parameters.
func (h *PasswordHasher) NeedsRehash(encodedHash string) bool {
	params, _, _, err := decodeArgon2id(encodedHash)
	if err != nil {
		return true
	}
	return params.memory != memory || params.iterations != iterations || params.parallelism != parallelism
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// decodeArgon2id parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func decodeArgon2id(encodedHash string) (argon2Params, []byte, []byte, error) {
	var p argon2Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, errMalformedHash
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" {
		return p, nil, nil, errMalformedHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if p.memory == 0 || p.memory > maxMemory ||
		p.iterations == 0 || p.iterations > maxIterations ||
		p.parallelism == 0 || p.parallelism > maxParallelism {
		return p, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minSaltLength || len(salt) > maxSaltLength {
		return p, nil, nil, errMalformedHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 || len(hash) > maxHashKeyLength {
		return p, nil, nil, errMalformedHash
	}

	return p, salt, hash, nil
}

func isBcrypt(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
