package aes256

// sbox and invSbox are filled in once by init() and are read-only after that.
var (
	sbox    [256]byte
	invSbox [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		b := gfInverse(byte(i))
		s := b ^ rotl8(b, 1) ^ rotl8(b, 2) ^ rotl8(b, 3) ^ rotl8(b, 4) ^ 0x63
		sbox[i] = s
		invSbox[s] = byte(i)
	}
}

// xtime multiplies x by the generator {02} in GF(2^8), reducing by 0x11B.
func xtime(x byte) byte {
	return x<<1 ^ (x>>7)*0x1b
}

// mul multiplies a and b in GF(2^8) by repeated doubling.
func mul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		a = xtime(a)
		b >>= 1
	}
	return p
}

// gfInverse returns a^254, which is the multiplicative inverse of a for
// a != 0. Zero maps to zero.
func gfInverse(a byte) byte {
	if a == 0 {
		return 0
	}
	r := byte(1)
	for e := 254; e > 0; e >>= 1 {
		if e&1 == 1 {
			r = mul(r, a)
		}
		a = mul(a, a)
	}
	return r
}

func rotl8(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}
