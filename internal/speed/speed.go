// Package speed implements the "-speed" command-line option,
// similar to "openssl speed".
// It benchmarks the gcmseal engines next to the AEADs from the Go
// ecosystem, so the cost of the table-driven pure-Go implementation can be
// seen against hardware-accelerated ones.
package speed

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"log"
	"testing"

	"github.com/jacobsa/crypto/siv"
	"gitlab.com/yawning/bsaes.git"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/gcm"
	"github.com/rfjakob/gcmseal/internal/gmac"
)

// Length of the associated data. Arbitrary, but similar to a short
// signature file.
const adLen = 24

// Payload per operation
const blockSize = 4096

// Run - run the speed the test and print the results.
func Run() {
	cpu := cpuModelName()
	if cpu == "" {
		cpu = "unknown"
	}
	aesni := "no"
	if cpuHasAES() {
		aesni = "yes"
	}
	fmt.Printf("cpu: %s; with AES acceleration: %s\n", cpu, aesni)

	bTable := []struct {
		name string
		f    func(*testing.B)
		// ours is true for the implementation gcmseal actually uses
		ours bool
	}{
		{name: "AES-GCM-256-gcmseal", f: bGCMSeal, ours: true},
		{name: "AES-GCM-256-gcmseal-open", f: bGCMOpen, ours: true},
		{name: "GMAC-256-gcmseal", f: bGMAC, ours: true},
		{name: "AES-GCM-256-Go", f: bGoGCM},
		{name: "AES-GCM-256-bsaes", f: bBsaesGCM},
		{name: "AES-SIV-512-Go", f: bAESSIV},
		{name: "XChaCha20-Poly1305-Go", f: bChacha20poly1305},
	}
	for _, b := range bTable {
		fmt.Printf("%-26s\t", b.name)
		mbs := mbPerSec(testing.Benchmark(b.f))
		if mbs > 0 {
			fmt.Printf("%7.2f MB/s", mbs)
		} else {
			fmt.Printf("    N/A")
		}
		if b.ours {
			fmt.Printf("\t(used by %s)\n", "gcmseal")
		} else {
			fmt.Printf("\t(reference)\n")
		}
	}
}

func mbPerSec(r testing.BenchmarkResult) float64 {
	if r.Bytes <= 0 || r.T <= 0 || r.N <= 0 {
		return 0
	}
	return (float64(r.Bytes) * float64(r.N) / 1e6) / r.T.Seconds()
}

func randBytes(n int) []byte {
	return cryptocore.RandBytes(n)
}

// bEncrypt benchmarks the encryption speed of cipher "c"
func bEncrypt(b *testing.B, c cipher.AEAD) {
	authData := randBytes(adLen)
	iv := randBytes(c.NonceSize())
	in := make([]byte, blockSize)
	dst := make([]byte, len(iv)+len(in)+c.Overhead())
	copy(dst, iv)
	b.SetBytes(int64(len(in)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Encrypt and append to nonce
		c.Seal(dst[:len(iv)], iv, in, authData)
	}
}

// bDecrypt benchmarks the decryption speed of cipher "c"
func bDecrypt(b *testing.B, c cipher.AEAD) {
	authData := randBytes(adLen)
	iv := randBytes(c.NonceSize())
	plain := randBytes(blockSize)
	ciphertext := c.Seal(iv, iv, plain, authData)
	b.SetBytes(int64(len(plain)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Reuse the "plain" buffer for the output
		_, err := c.Open(plain[:0], iv, ciphertext[len(iv):], authData)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func newGCM() *gcm.GCM {
	g, err := gcm.New(randBytes(gcm.KeySize))
	if err != nil {
		log.Panic(err)
	}
	return g
}

// bGCMSeal benchmarks our AES-256-GCM
func bGCMSeal(b *testing.B) {
	bEncrypt(b, newGCM())
}

// bGCMOpen benchmarks verify-then-decrypt
func bGCMOpen(b *testing.B) {
	bDecrypt(b, newGCM())
}

// bGMAC benchmarks tag generation over blockSize bytes of associated data
func bGMAC(b *testing.B) {
	m := gmac.FromGCM(newGCM())
	nonce := randBytes(gcm.NonceSize)
	ad := make([]byte, blockSize)
	b.SetBytes(int64(len(ad)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.GenerateTag(nonce, ad); err != nil {
			b.Fatal(err)
		}
	}
}

// bGoGCM benchmarks Go stdlib GCM
func bGoGCM(b *testing.B) {
	gAES, err := aes.NewCipher(randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	gGCM, err := cipher.NewGCM(gAES)
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, gGCM)
}

// bBsaesGCM benchmarks Go stdlib GCM on top of the bitsliced constant time
// AES from gitlab.com/yawning/bsaes.git. Unless the CPU has AES
// acceleration, this is the fair comparison for our table-free AES.
func bBsaesGCM(b *testing.B) {
	block, err := bsaes.NewCipher(randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	g, err := cipher.NewGCM(block)
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, g)
}

// bAESSIV benchmarks AES-SIV from github.com/jacobsa/crypto/siv
func bAESSIV(b *testing.B) {
	key := randBytes(64)
	authData := randBytes(adLen)
	iv := randBytes(16)
	in := make([]byte, blockSize)
	b.SetBytes(int64(len(in)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// As per RFC 5297 section 3, the nonce is passed as the last
		// associated data element.
		_, err := siv.Encrypt(iv, key, in, [][]byte{authData, iv})
		if err != nil {
			b.Fatal(err)
		}
	}
}

// bChacha20poly1305 benchmarks XChaCha20 from golang.org/x/crypto/chacha20poly1305
func bChacha20poly1305(b *testing.B) {
	c, err := chacha20poly1305.NewX(randBytes(chacha20poly1305.KeySize))
	if err != nil {
		b.Fatal(err)
	}
	bEncrypt(b, c)
}
