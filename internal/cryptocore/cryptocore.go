// Package cryptocore binds the GCM and GMAC engines to one key and provides
// the random nonce and salt source used with them.
package cryptocore

import (
	"github.com/rfjakob/gcmseal/internal/gcm"
	"github.com/rfjakob/gcmseal/internal/gmac"
)

const (
	// KeyLen is the cipher key length in bytes. 32 for AES-256.
	KeyLen = gcm.KeySize
	// AuthTagLen is the length of a GCM auth tag in bytes.
	AuthTagLen = gcm.TagSize
	// IVLen is the GCM nonce length in bytes.
	IVLen = gcm.NonceSize
	// SaltLen is the length of the random salt used in passphrase mode.
	SaltLen = 16
)

// CryptoCore is the low level crypto implementation.
type CryptoCore struct {
	// AES-256-GCM for content encryption
	AEAD *gcm.GCM
	// GMAC shares the key and the GHASH table with AEAD
	MAC *gmac.GMAC
	// GCM needs unique IVs (nonces)
	IVGenerator *nonceGenerator
}

// New returns a new CryptoCore object. The only possible error is a key
// that is not KeyLen bytes long.
func New(key []byte) (*CryptoCore, error) {
	aead, err := gcm.New(key)
	if err != nil {
		return nil, err
	}
	return &CryptoCore{
		AEAD:        aead,
		MAC:         gmac.FromGCM(aead),
		IVGenerator: &nonceGenerator{nonceLen: IVLen},
	}, nil
}
