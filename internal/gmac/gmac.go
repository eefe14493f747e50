// Package gmac exposes the authentication half of GCM as a standalone MAC.
// A GMAC tag is the GCM tag of an empty plaintext.
package gmac

import (
	"github.com/rfjakob/gcmseal/internal/gcm"
)

// TagSize is the length of a GMAC tag in bytes.
const TagSize = gcm.TagSize

// GMAC authenticates associated data only.
type GMAC struct {
	aead *gcm.GCM
}

// New returns a GMAC instance for the 32-byte "key".
func New(key []byte) (*GMAC, error) {
	g, err := gcm.New(key)
	if err != nil {
		return nil, err
	}
	return FromGCM(g), nil
}

// FromGCM reuses an existing GCM instance and its precomputed table.
func FromGCM(g *gcm.GCM) *GMAC {
	return &GMAC{aead: g}
}

// GenerateTag returns the 16-byte tag over "aad".
func (m *GMAC) GenerateTag(nonce, aad []byte) ([]byte, error) {
	_, tag, err := m.aead.Encrypt(nonce, nil, aad)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Verify checks "tag" against "aad". It returns gcm.ErrAuth on mismatch.
func (m *GMAC) Verify(nonce, aad, tag []byte) error {
	_, err := m.aead.Decrypt(nonce, nil, aad, tag)
	return err
}
