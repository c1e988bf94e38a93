package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// RandomString reads n bytes from crypto/rand and returns them as unpadded
// base64url. Key IDs and throwaway hashing seeds are built from it.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: random length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint identifies s in logs without revealing it: the first 8 bytes
// of its SHA-256 digest, base64url encoded.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
