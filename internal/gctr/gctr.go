// Package gctr implements the GCTR counter mode function of NIST SP 800-38D.
package gctr

import (
	"crypto/cipher"
	"encoding/binary"
	"log"
)

// BlockSize is the counter block length in bytes.
const BlockSize = 16

// Inc32 increments the last four bytes of "counter" as a big-endian uint32,
// wrapping around at 2^32. The first twelve bytes are not touched.
func Inc32(counter *[BlockSize]byte) {
	ctr := binary.BigEndian.Uint32(counter[12:])
	binary.BigEndian.PutUint32(counter[12:], ctr+1)
}

// XORKeyStream XORs "src" with the keystream E_K(icb+1), E_K(icb+2), ... and
// writes the result to "dst". The counter is incremented before each block,
// so "icb" itself is never encrypted here. "icb" is not modified.
//
// dst must be at least as long as src. dst and src may overlap exactly.
func XORKeyStream(b cipher.Block, icb *[BlockSize]byte, dst, src []byte) {
	if len(dst) < len(src) {
		log.Panicf("gctr: output too short: %d < %d", len(dst), len(src))
	}
	ctr := *icb
	var ks [BlockSize]byte
	for len(src) > 0 {
		Inc32(&ctr)
		b.Encrypt(ks[:], ctr[:])
		n := len(src)
		if n > BlockSize {
			n = BlockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		dst = dst[n:]
		src = src[n:]
	}
}
