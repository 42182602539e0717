package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
)

// LoadRSAKey reads a PEM encoded private key (PKCS#1 or PKCS#8).
func LoadRSAKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rsa key %s: %w", path, err)
	}
	return ParseRSAKey(data)
}

// ParseRSAKey decodes a PEM encoded private key (PKCS#1 or PKCS#8).
func ParseRSAKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("rsa key: no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing rsa key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("parsing rsa key: unexpected key type %T", parsed)
	}
	return key, nil
}

// RSADecryptBlock decrypts the login block with raw RSA (c^d mod n, no padding).
// The result has no fixed width: leading zero bytes vanish the same way they
// do for the client's big-integer encoding.
func RSADecryptBlock(privateKey *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, errors.New("RSA decrypt: empty block")
	}

	c := new(big.Int).SetBytes(ciphertext)
	if c.Cmp(privateKey.N) >= 0 {
		return nil, fmt.Errorf("RSA decrypt: block (%d bytes) exceeds modulus", len(ciphertext))
	}
	m := new(big.Int).Exp(c, privateKey.D, privateKey.N)
	return m.Bytes(), nil
}

// RSAEncryptBlock is the client-side counterpart of RSADecryptBlock.
func RSAEncryptBlock(publicKey *rsa.PublicKey, plaintext []byte) []byte {
	m := new(big.Int).SetBytes(plaintext)
	c := new(big.Int).Exp(m, big.NewInt(int64(publicKey.E)), publicKey.N)
	return c.Bytes()
}
