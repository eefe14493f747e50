package cryptocore

import (
	"crypto/rand"
	"log"
)

// RandBytes gets "n" random bytes from /dev/urandom or panics
func RandBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		// crypto/rand.Read() is documented to never return an
		// error, so this should never happen. Still, better safe than sorry.
		log.Panic("Failed to read random bytes: " + err.Error())
	}
	return b
}

// NewSalt returns a fresh SaltLen-byte salt for passphrase mode.
func NewSalt() []byte {
	return randPrefetcher.read(SaltLen)
}

type nonceGenerator struct {
	nonceLen int // bytes
}

// Get a random "nonceLen"-byte nonce
func (n *nonceGenerator) Get() []byte {
	return randPrefetcher.read(n.nonceLen)
}
