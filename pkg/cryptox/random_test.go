package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	seen := make(map[string]struct{})
	for _, n := range []int{1, 16, 24, 32} {
		s, err := RandomString(n)
		require.NoError(t, err)
		require.Len(t, s, (n*8+5)/6, "length for %d bytes", n)

		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}

	for _, n := range []int{0, -8} {
		s, err := RandomString(n)
		require.Error(t, err)
		require.Empty(t, s)
	}
}

func TestFingerprint(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.payload.sig"

	require.Equal(t, Fingerprint(token), Fingerprint(token))
	require.NotEqual(t, Fingerprint(token), Fingerprint(token+"x"))
	require.Len(t, Fingerprint(token), 11)
	require.NotContains(t, Fingerprint(token), "payload")
}
