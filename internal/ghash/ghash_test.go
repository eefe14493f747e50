package ghash

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/rfjakob/gcmseal/internal/aes256"
)

func unhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// H for the all-zero 256-bit key, from the GCM test vectors (test case 13).
const zeroKeyH = "dc95c078a2408989ad48a21492842087"

func TestSubkey(t *testing.T) {
	c, err := aes256.New(make([]byte, aes256.KeySize))
	if err != nil {
		t.Fatal(err)
	}
	g := New(c)
	if have := hex.EncodeToString(g.Subkey()); have != zeroKeyH {
		t.Errorf("want %s have %s", zeroKeyH, have)
	}
}

// GCM test case 14: GHASH(H, {}, C)
func TestSumVector(t *testing.T) {
	g := NewWithSubkey(unhex(zeroKeyH))
	ct := unhex("cea7403d4d606b6e074ec5d3baf39d18")
	want := "83de425c5edc5d498f382c441041ca92"
	if have := hex.EncodeToString(g.Sum(nil, ct)); have != want {
		t.Errorf("want %s have %s", want, have)
	}
}

// An empty AAD and ciphertext hash to the zero length block times H, which is
// zero.
func TestSumEmpty(t *testing.T) {
	g := NewWithSubkey(unhex(zeroKeyH))
	if s := g.Sum(nil, nil); !bytes.Equal(s, make([]byte, BlockSize)) {
		t.Errorf("want zero, have %x", s)
	}
}

// TestTable checks that the table is H, H*x, H*x^2, ...
func TestTable(t *testing.T) {
	g := NewWithSubkey(unhex(zeroKeyH))
	if g.table[0] != g.h {
		t.Fatal("table[0] != H")
	}
	for i := 0; i < 128; i++ {
		// x^i has exactly bit i set
		var xi fieldElement
		if i < 64 {
			xi.hi = 1 << (63 - i)
		} else {
			xi.lo = 1 << (127 - i)
		}
		if want := mulGeneric(xi, g.h); g.table[i] != want {
			t.Fatalf("table[%d]: want %x have %x", i, want, g.table[i])
		}
	}
}

// TestMulHRandom compares the table-driven multiply with the generic one for
// 1000 random inputs.
func TestMulHRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for k := 0; k < 10; k++ {
		h := fieldElement{hi: rng.Uint64(), lo: rng.Uint64()}
		var hb [BlockSize]byte
		h.store(hb[:])
		g := NewWithSubkey(hb[:])
		for i := 0; i < 100; i++ {
			x := fieldElement{hi: rng.Uint64(), lo: rng.Uint64()}
			want := mulGeneric(x, h)
			have := g.mulH(x)
			if want != have {
				t.Fatalf("H=%x X=%x: generic=%x table=%x", h, x, want, have)
			}
		}
	}
}

func TestMulGenericProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	one := fieldElement{hi: 1 << 63}
	for i := 0; i < 100; i++ {
		a := fieldElement{hi: rng.Uint64(), lo: rng.Uint64()}
		b := fieldElement{hi: rng.Uint64(), lo: rng.Uint64()}
		if mulGeneric(a, one) != a {
			t.Fatalf("a*1 != a for a=%x", a)
		}
		if mulGeneric(a, b) != mulGeneric(b, a) {
			t.Fatalf("multiplication is not commutative for a=%x b=%x", a, b)
		}
	}
}

// TestMulH checks the byte-slice wrapper against the internal function.
func TestMulH(t *testing.T) {
	g := NewWithSubkey(unhex(zeroKeyH))
	one := make([]byte, BlockSize)
	one[0] = 0x80
	if have := g.MulH(one); !bytes.Equal(have, g.Subkey()) {
		t.Errorf("1*H: want %x have %x", g.Subkey(), have)
	}
}

// The subkey derivation does not depend on which cipher.Block computes it.
func TestNewStdlib(t *testing.T) {
	key := make([]byte, 32)
	key[0] = 1
	c1, _ := aes256.New(key)
	c2, _ := aes.NewCipher(key)
	if !bytes.Equal(New(c1).Subkey(), New(c2).Subkey()) {
		t.Fatal("subkey mismatch")
	}
}

func BenchmarkSum4k(b *testing.B) {
	g := NewWithSubkey(unhex(zeroKeyH))
	ct := make([]byte, 4096)
	b.SetBytes(int64(len(ct)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Sum(nil, ct)
	}
}
