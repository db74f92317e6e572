package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	sealed, err := Encrypt([]byte("page-access-token"), testKey)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "page-access-token")

	plain, err := Decrypt(sealed, testKey)
	require.NoError(t, err)
	assert.Equal(t, "page-access-token", plain)

	again, err := Encrypt([]byte("page-access-token"), testKey)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ between calls")
}

func TestDecrypt_Failures(t *testing.T) {
	sealed, err := Encrypt([]byte("secret"), testKey)
	require.NoError(t, err)

	_, err = Decrypt(sealed, []byte("fedcba9876543210fedcba9876543210"))
	assert.Error(t, err)

	_, err = Decrypt("%%%", testKey)
	assert.Error(t, err)

	_, err = Decrypt("AAAA", testKey)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestEncryptJSON(t *testing.T) {
	type creds struct {
		AccessToken string `json:"access_token"`
		ChatID      string `json:"chat_id"`
	}

	sealed, err := EncryptJSON(creds{AccessToken: "tok", ChatID: "-100"}, testKey)
	require.NoError(t, err)

	var out creds
	require.NoError(t, DecryptJSON(sealed, testKey, &out))
	assert.Equal(t, creds{AccessToken: "tok", ChatID: "-100"}, out)
}
