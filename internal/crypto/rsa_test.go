package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSABlock_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	// login block: opcode 10 followed by seeds, uid and credentials
	plain := []byte{10, 0, 0, 0, 1, 0, 0, 0, 2, 'a', 'b', 10, 'c', 10}

	cipherText := RSAEncryptBlock(&key.PublicKey, plain)
	decrypted, err := RSADecryptBlock(key, cipherText)
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}

func TestRSADecryptBlock_RejectsOversizedBlock(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	tooLarge := make([]byte, 130)
	for i := range tooLarge {
		tooLarge[i] = 0xFF
	}
	_, err = RSADecryptBlock(key, tooLarge)
	assert.Error(t, err)

	_, err = RSADecryptBlock(key, nil)
	assert.Error(t, err)
}

func TestLoadRSAKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	dir := t.TempDir()

	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pkcs1Path := filepath.Join(dir, "pkcs1.pem")
	require.NoError(t, os.WriteFile(pkcs1Path, pkcs1, 0o600))

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pkcs8 := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	pkcs8Path := filepath.Join(dir, "pkcs8.pem")
	require.NoError(t, os.WriteFile(pkcs8Path, pkcs8, 0o600))

	for _, path := range []string{pkcs1Path, pkcs8Path} {
		loaded, err := LoadRSAKey(path)
		require.NoError(t, err, path)
		assert.Equal(t, 0, key.N.Cmp(loaded.N), path)
	}

	_, err = ParseRSAKey([]byte("not pem"))
	assert.Error(t, err)
}
