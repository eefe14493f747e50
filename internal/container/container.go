// Package container frames a sealed file on disk.
//
// Format: [ Salt 16 bytes, passphrase mode only ] [ Nonce 12 bytes ] [ Ciphertext ]
//
// The tag is not part of the container. It is stored next to it (see package
// tagio).
package container

import (
	"fmt"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
)

const (
	// SaltLen is the length of the optional salt prefix
	SaltLen = cryptocore.SaltLen
	// NonceLen is the length of the GCM nonce
	NonceLen = cryptocore.IVLen
)

// Container is a parsed or to-be-written sealed file.
type Container struct {
	// Salt is nil when the key was given directly
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

// HeaderLen returns the number of bytes before the ciphertext.
func HeaderLen(hasSalt bool) int {
	if hasSalt {
		return SaltLen + NonceLen
	}
	return NonceLen
}

// Pack - serialize the container
func (c *Container) Pack() []byte {
	if len(c.Nonce) != NonceLen || (c.Salt != nil && len(c.Salt) != SaltLen) {
		panic("Container object not properly initialized")
	}
	buf := make([]byte, 0, len(c.Salt)+len(c.Nonce)+len(c.Ciphertext))
	buf = append(buf, c.Salt...)
	buf = append(buf, c.Nonce...)
	buf = append(buf, c.Ciphertext...)
	return buf
}

// Parse - parse "buf" into a Container. Whether a salt is present cannot be
// told from the data, the caller must know. The returned slices alias "buf".
func Parse(buf []byte, hasSalt bool) (*Container, error) {
	hl := HeaderLen(hasSalt)
	if len(buf) < hl {
		return nil, fmt.Errorf("Parse: file too short: got %d bytes, need at least %d", len(buf), hl)
	}
	var c Container
	if hasSalt {
		c.Salt = buf[:SaltLen]
		buf = buf[SaltLen:]
	}
	c.Nonce = buf[:NonceLen]
	c.Ciphertext = buf[NonceLen:]
	return &c, nil
}
