package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	plaintext := "felt overwhelmed before lunch, better after a walk"
	ciphertext, err := svc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := svc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEmptyStringPassesThrough(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	ciphertext, err := svc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, ciphertext)

	plaintext, err := svc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestNoncesAreUnique(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	a, err := svc.Encrypt("same input")
	require.NoError(t, err)
	b, err := svc.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBadKeyLength(t *testing.T) {
	_, err := NewEncryptionService([]byte("too short"))
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	svc, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	_, err = svc.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = svc.Decrypt("c2hvcnQ=")
	assert.Error(t, err)
}

func TestWrongKeyFailsToDecrypt(t *testing.T) {
	a, err := NewEncryptionService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	b, err := NewEncryptionService([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	ciphertext, err := a.Encrypt("secret")
	require.NoError(t, err)
	_, err = b.Decrypt(ciphertext)
	assert.Error(t, err)
}
