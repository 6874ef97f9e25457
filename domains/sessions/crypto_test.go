package sessions

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	ciphertext, err := encrypt("ghp_sometoken")
	require.NoError(t, err)
	require.NotEqual(t, "ghp_sometoken", ciphertext)

	plaintext, err := decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "ghp_sometoken", plaintext)
}

func TestEncryptAcceptsBase64Key(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", key)

	ciphertext, err := encrypt("secret")
	require.NoError(t, err)

	plaintext, err := decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "secret", plaintext)
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	a, err := encrypt("secret")
	require.NoError(t, err)
	b, err := encrypt("secret")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "nonce makes each ciphertext distinct")
}

func TestEncryptMissingKey(t *testing.T) {
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", "")

	_, err := encrypt("secret")
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestEncryptWrongKeyLength(t *testing.T) {
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", "tooshort")

	_, err := encrypt("secret")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecryptGarbage(t *testing.T) {
	t.Setenv("CARDVAULT_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	_, err := decrypt(base64.StdEncoding.EncodeToString([]byte("x")))
	require.ErrorIs(t, err, ErrInvalidCipher)

	_, err = decrypt("not base64 at all!!!")
	require.Error(t, err)
}
