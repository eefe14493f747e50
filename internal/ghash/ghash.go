// Package ghash implements the GHASH universal hash from NIST SP 800-38D
// over GF(2^128), keyed by the hash subkey H.
//
// Elements use the GCM bit order: the most significant bit of byte 0 is the
// coefficient of x^0. Multiplying by x is therefore a right shift of the
// 128-bit big-endian value, with the reduction constant 0xE1 folded into the
// top byte when a bit falls off the end.
package ghash

import (
	"crypto/cipher"
	"encoding/binary"
	"log"
)

// BlockSize is the GHASH block length in bytes.
const BlockSize = 16

// fieldElement is a GF(2^128) element. hi holds bytes 0..7, lo bytes 8..15,
// both big-endian.
type fieldElement struct {
	hi, lo uint64
}

// r is the reduction constant 11100001 || 0^120.
const r = 0xe1 << 56

func load(b []byte) fieldElement {
	return fieldElement{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func (e fieldElement) store(b []byte) {
	binary.BigEndian.PutUint64(b[:8], e.hi)
	binary.BigEndian.PutUint64(b[8:16], e.lo)
}

// mulX returns e*x.
func (e fieldElement) mulX() fieldElement {
	carry := e.lo & 1
	e.lo = e.lo>>1 | e.hi<<63
	e.hi >>= 1
	e.hi ^= r & -carry
	return e
}

// Hash is GHASH keyed with a fixed subkey H. table[i] holds H*x^i and is
// built once by the constructor.
type Hash struct {
	h     fieldElement
	table [128]fieldElement
}

// New derives H = E_K(0^128) from "b" and precomputes the table.
func New(b cipher.Block) *Hash {
	var zero [BlockSize]byte
	b.Encrypt(zero[:], zero[:])
	return NewWithSubkey(zero[:])
}

// NewWithSubkey builds a Hash from an explicit 16-byte subkey.
func NewWithSubkey(h []byte) *Hash {
	if len(h) != BlockSize {
		log.Panicf("ghash: wrong subkey length %d", len(h))
	}
	g := &Hash{h: load(h)}
	g.table[0] = g.h
	for i := 1; i < len(g.table); i++ {
		g.table[i] = g.table[i-1].mulX()
	}
	return g
}

// Subkey returns a copy of H.
func (g *Hash) Subkey() []byte {
	out := make([]byte, BlockSize)
	g.h.store(out)
	return out
}

// mulH returns x*H. Every table entry is visited; the bits of x only select
// which ones are XORed in.
func (g *Hash) mulH(x fieldElement) fieldElement {
	var z fieldElement
	for i := 0; i < 64; i++ {
		m := -((x.hi >> (63 - i)) & 1)
		z.hi ^= g.table[i].hi & m
		z.lo ^= g.table[i].lo & m
	}
	for i := 0; i < 64; i++ {
		m := -((x.lo >> (63 - i)) & 1)
		z.hi ^= g.table[64+i].hi & m
		z.lo ^= g.table[64+i].lo & m
	}
	return z
}

// MulH multiplies the 16-byte block "x" by H.
func (g *Hash) MulH(x []byte) []byte {
	if len(x) != BlockSize {
		log.Panicf("ghash: wrong block length %d", len(x))
	}
	out := make([]byte, BlockSize)
	g.mulH(load(x)).store(out)
	return out
}

// update absorbs "data" into the accumulator "y". A trailing partial block
// is zero-padded.
func (g *Hash) update(y fieldElement, data []byte) fieldElement {
	for len(data) >= BlockSize {
		b := load(data)
		y.hi ^= b.hi
		y.lo ^= b.lo
		y = g.mulH(y)
		data = data[BlockSize:]
	}
	if len(data) > 0 {
		var pad [BlockSize]byte
		copy(pad[:], data)
		b := load(pad[:])
		y.hi ^= b.hi
		y.lo ^= b.lo
		y = g.mulH(y)
	}
	return y
}

// Sum computes GHASH_H(A || pad || C || pad || [len(A)]_64 || [len(C)]_64).
func (g *Hash) Sum(aad, ciphertext []byte) []byte {
	var y fieldElement
	y = g.update(y, aad)
	y = g.update(y, ciphertext)
	y.hi ^= uint64(len(aad)) * 8
	y.lo ^= uint64(len(ciphertext)) * 8
	y = g.mulH(y)
	out := make([]byte, BlockSize)
	y.store(out)
	return out
}

// mulGeneric is the bit-serial multiplication from SP 800-38D, algorithm 1.
// It works for any pair of operands and serves as the reference for the
// table-driven mulH.
func mulGeneric(x, y fieldElement) fieldElement {
	var z fieldElement
	v := y
	for i := 0; i < 128; i++ {
		var bit uint64
		if i < 64 {
			bit = (x.hi >> (63 - i)) & 1
		} else {
			bit = (x.lo >> (127 - i)) & 1
		}
		z.hi ^= v.hi & -bit
		z.lo ^= v.lo & -bit
		v = v.mulX()
	}
	return z
}
