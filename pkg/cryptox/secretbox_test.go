package cryptox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newBox(t *testing.T, master string) *cryptox.SecretBox {
	t.Helper()
	box, err := cryptox.NewSecretBox([]byte(master))
	require.NoError(t, err)
	return box
}

func TestSecretBoxRoundTrip(t *testing.T) {
	box := newBox(t, "test-master-key-for-encryption-12345")

	for _, plaintext := range []string{"", "s3cr3t", "пароль🔒", strings.Repeat("x", 100)} {
		sealed, err := box.SealString(plaintext)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(sealed, "v1."))
		if plaintext != "" {
			require.NotContains(t, sealed, plaintext)
		}

		opened, err := box.OpenString(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestSecretBoxNonceIsRandom(t *testing.T) {
	box := newBox(t, "test-master-key-multiple-times-xyz")

	a, err := box.SealString("same")
	require.NoError(t, err)
	b, err := box.SealString("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestSecretBoxWrongKey(t *testing.T) {
	sealed, err := newBox(t, "key-one").SealString("payload")
	require.NoError(t, err)

	_, err = newBox(t, "key-two").OpenString(sealed)
	require.ErrorIs(t, err, cryptox.ErrSealedOpen)
}

func TestSecretBoxTampered(t *testing.T) {
	box := newBox(t, "tamper-key")
	sealed, err := box.SealString("payload")
	require.NoError(t, err)

	// Flip a character inside the nonce; every interior base64 digit carries data.
	i := len("v1.") + 4
	flipped := byte('A')
	if sealed[i] == 'A' {
		flipped = 'B'
	}
	tampered := sealed[:i] + string(flipped) + sealed[i+1:]

	_, err = box.OpenString(tampered)
	require.Error(t, err)
}

func TestSecretBoxMalformed(t *testing.T) {
	box := newBox(t, "malformed-key")

	for _, in := range []string{"", "plaintext", "v1.", "v1.!!!", "v2.AAAA", "v1.AAAA"} {
		_, err := box.OpenString(in)
		require.ErrorIs(t, err, cryptox.ErrSealedMalformed, "input %q", in)
	}
}

func TestNewSecretBoxEmptyKey(t *testing.T) {
	_, err := cryptox.NewSecretBox(nil)
	require.Error(t, err)
}

func TestLoadMasterKey(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "master.key")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

		key, ephemeral, err := cryptox.LoadMasterKey(path, "CREDVAULT_TEST_MASTER_KEY")
		require.NoError(t, err)
		require.False(t, ephemeral)
		require.Equal(t, []byte("from-file"), key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := cryptox.LoadMasterKey(filepath.Join(t.TempDir(), "nope"), "CREDVAULT_TEST_MASTER_KEY")
		require.Error(t, err)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("CREDVAULT_TEST_MASTER_KEY", "from-env")

		key, ephemeral, err := cryptox.LoadMasterKey("", "CREDVAULT_TEST_MASTER_KEY")
		require.NoError(t, err)
		require.False(t, ephemeral)
		require.Equal(t, []byte("from-env"), key)
	})

	t.Run("ephemeral", func(t *testing.T) {
		t.Setenv("CREDVAULT_TEST_MASTER_KEY", "")

		key, ephemeral, err := cryptox.LoadMasterKey("", "CREDVAULT_TEST_MASTER_KEY")
		require.NoError(t, err)
		require.True(t, ephemeral)
		require.Len(t, key, 32)
	})
}
