package gcm

import (
	"crypto/cipher"
	"log"

	"github.com/rfjakob/gcmseal/internal/gctr"
)

var _ cipher.AEAD = &GCM{}

// NonceSize is part of the cipher.AEAD interface.
func (g *GCM) NonceSize() int {
	return NonceSize
}

// Overhead is part of the cipher.AEAD interface.
func (g *GCM) Overhead() int {
	return TagSize
}

// Seal encrypts and authenticates "plaintext", appending ciphertext||tag to
// "dst". Like crypto/cipher, it panics on a wrong nonce length.
func (g *GCM) Seal(dst, nonce, plaintext, aad []byte) []byte {
	if len(nonce) != NonceSize {
		log.Panicf("gcm: wrong nonce length %d", len(nonce))
	}
	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	j := j0(nonce)
	ct := out[:len(plaintext)]
	gctr.XORKeyStream(g.block, &j, ct, plaintext)
	copy(out[len(plaintext):], g.computeTag(&j, aad, ct))
	return ret
}

// Open verifies and decrypts ciphertext||tag, appending the plaintext to
// "dst". On failure it returns nil and ErrAuth and "dst" is left alone.
func (g *GCM) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		log.Panicf("gcm: wrong nonce length %d", len(nonce))
	}
	if len(ciphertext) < TagSize {
		return nil, ErrAuth
	}
	tag := ciphertext[len(ciphertext)-TagSize:]
	ciphertext = ciphertext[:len(ciphertext)-TagSize]
	j := j0(nonce)
	if !tagsEqual(g.computeTag(&j, aad, ciphertext), tag) {
		return nil, ErrAuth
	}
	ret, out := sliceForAppend(dst, len(ciphertext))
	gctr.XORKeyStream(g.block, &j, out, ciphertext)
	return ret, nil
}

// sliceForAppend takes a slice and a requested number of bytes. It returns a
// slice with the contents of the given slice followed by that many bytes and
// a second slice that aliases into it and contains only the extra bytes.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
