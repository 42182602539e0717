package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

// BenchmarkRSADecryptBlock дешифрует login block при каждом входе
func BenchmarkRSADecryptBlock(b *testing.B) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		b.Fatal(err)
	}
	plain := make([]byte, 96)
	plain[0] = 10
	if _, err := rand.Read(plain[1:]); err != nil {
		b.Fatal(err)
	}
	block := RSAEncryptBlock(&key.PublicKey, plain)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := RSADecryptBlock(key, block); err != nil {
			b.Fatal(err)
		}
	}
}
