// Package gcm implements AES-256 in Galois/Counter Mode (NIST SP 800-38D) on
// top of the aes256, ghash and gctr packages. Only 96-bit nonces and 128-bit
// tags are supported.
package gcm

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/rfjakob/gcmseal/internal/aes256"
	"github.com/rfjakob/gcmseal/internal/gctr"
	"github.com/rfjakob/gcmseal/internal/ghash"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = aes256.KeySize
	// NonceSize is the only IV length we support (96 bits).
	NonceSize = 12
	// TagSize is the authentication tag length in bytes.
	TagSize = 16
)

var (
	// ErrKeyLength is returned by New for keys that are not 32 bytes.
	ErrKeyLength = aes256.ErrKeyLength
	// ErrNonceLength means the nonce was not NonceSize bytes.
	ErrNonceLength = errors.New("gcm: invalid nonce length")
	// ErrTagLength means the tag passed to Decrypt was not TagSize bytes.
	ErrTagLength = errors.New("gcm: invalid tag length")
	// ErrAuth is returned when the tag does not match. No plaintext is
	// returned together with this error.
	ErrAuth = errors.New("gcm: message authentication failed")
)

// GCM holds the expanded key and the GHASH table. Both are built by New and
// never change, so one GCM can serve many goroutines at once.
type GCM struct {
	block *aes256.Cipher
	hash  *ghash.Hash
}

// New expands "key" and precomputes H = E_K(0^128) and its table.
func New(key []byte) (*GCM, error) {
	b, err := aes256.New(key)
	if err != nil {
		return nil, err
	}
	return &GCM{
		block: b,
		hash:  ghash.New(b),
	}, nil
}

// j0 returns the pre-counter block nonce || 0x00000001.
func j0(nonce []byte) (j [gctr.BlockSize]byte) {
	copy(j[:], nonce)
	j[gctr.BlockSize-1] = 1
	return j
}

// computeTag returns E_K(J0) ^ GHASH_H(aad, ciphertext).
func (g *GCM) computeTag(j *[gctr.BlockSize]byte, aad, ciphertext []byte) []byte {
	s := g.hash.Sum(aad, ciphertext)
	ek := *j
	g.block.EncryptBlock(&ek)
	for i := range s {
		s[i] ^= ek[i]
	}
	return s
}

// Encrypt encrypts "plaintext" and authenticates it together with "aad".
func (g *GCM) Encrypt(nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	if len(nonce) != NonceSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrNonceLength, len(nonce), NonceSize)
	}
	j := j0(nonce)
	ciphertext = make([]byte, len(plaintext))
	gctr.XORKeyStream(g.block, &j, ciphertext, plaintext)
	tag = g.computeTag(&j, aad, ciphertext)
	return ciphertext, tag, nil
}

// Decrypt checks "tag" against "ciphertext" and "aad" and, only if it
// matches, decrypts the ciphertext.
func (g *GCM) Decrypt(nonce, ciphertext, aad, tag []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrNonceLength, len(nonce), NonceSize)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTagLength, len(tag), TagSize)
	}
	j := j0(nonce)
	if !tagsEqual(g.computeTag(&j, aad, ciphertext), tag) {
		return nil, ErrAuth
	}
	plaintext := make([]byte, len(ciphertext))
	gctr.XORKeyStream(g.block, &j, plaintext, ciphertext)
	return plaintext, nil
}

// tagsEqual compares all bytes of a and b before looking at the result.
func tagsEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return subtle.ConstantTimeByteEq(v, 0) == 1
}
