// Package aes256 is a byte-oriented implementation of the AES block cipher
// with 256-bit keys (FIPS-197, Nk=8, Nr=14).
//
// The state is kept as a linear 16-byte buffer in column-major order, i.e.
// state[r][c] is b[r+4*c]. No memory is allocated per block.
package aes256

import (
	"errors"
	"fmt"
)

const (
	// KeySize is the only key length we accept, in bytes.
	KeySize = 32
	// BlockSize is the AES block length in bytes.
	BlockSize = 16
	// Rounds is Nr for a 256-bit key.
	Rounds = 14
)

// ErrKeyLength is returned by New when the key is not KeySize bytes long.
var ErrKeyLength = errors.New("aes256: invalid key length")

// Cipher is an AES-256 instance with an expanded key. The round keys are
// written once by New and only read afterwards, so a Cipher may be shared
// between goroutines.
type Cipher struct {
	rk [Rounds + 1][BlockSize]byte
}

// New expands "key" into the round key schedule.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrKeyLength, len(key), KeySize)
	}
	c := &Cipher{}
	c.expandKey(key)
	return c, nil
}

// expandKey runs the FIPS-197 key expansion for Nk=8.
func (c *Cipher) expandKey(key []byte) {
	const nk = KeySize / 4
	var w [4 * (Rounds + 1)][4]byte
	for i := 0; i < nk; i++ {
		copy(w[i][:], key[4*i:])
	}
	rcon := byte(0x01)
	for i := nk; i < len(w); i++ {
		t := w[i-1]
		switch i % nk {
		case 0:
			// SubWord(RotWord(t)) ^ Rcon
			t = [4]byte{sbox[t[1]] ^ rcon, sbox[t[2]], sbox[t[3]], sbox[t[0]]}
			rcon = xtime(rcon)
		case 4:
			t = [4]byte{sbox[t[0]], sbox[t[1]], sbox[t[2]], sbox[t[3]]}
		}
		for j := range t {
			w[i][j] = w[i-nk][j] ^ t[j]
		}
	}
	for r := range c.rk {
		for j := 0; j < 4; j++ {
			copy(c.rk[r][4*j:], w[4*r+j][:])
		}
	}
}

// EncryptBlock encrypts "b" in place.
func (c *Cipher) EncryptBlock(b *[BlockSize]byte) {
	addRoundKey(b, &c.rk[0])
	for r := 1; r < Rounds; r++ {
		subBytes(b)
		shiftRows(b)
		mixColumns(b)
		addRoundKey(b, &c.rk[r])
	}
	subBytes(b)
	shiftRows(b)
	addRoundKey(b, &c.rk[Rounds])
}

// DecryptBlock decrypts "b" in place.
func (c *Cipher) DecryptBlock(b *[BlockSize]byte) {
	addRoundKey(b, &c.rk[Rounds])
	for r := Rounds - 1; r > 0; r-- {
		invShiftRows(b)
		invSubBytes(b)
		addRoundKey(b, &c.rk[r])
		invMixColumns(b)
	}
	invShiftRows(b)
	invSubBytes(b)
	addRoundKey(b, &c.rk[0])
}

// BlockSize is part of the cipher.Block interface.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Encrypt is part of the cipher.Block interface. dst and src may overlap
// exactly.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes256: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes256: output not full block")
	}
	var b [BlockSize]byte
	copy(b[:], src)
	c.EncryptBlock(&b)
	copy(dst, b[:])
}

// Decrypt is part of the cipher.Block interface.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes256: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes256: output not full block")
	}
	var b [BlockSize]byte
	copy(b[:], src)
	c.DecryptBlock(&b)
	copy(dst, b[:])
}
