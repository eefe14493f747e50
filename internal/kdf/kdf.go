// Package kdf turns a passphrase and a salt into a 32-byte AES-256 key.
package kdf

import (
	"fmt"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
)

const (
	// NamePBKDF2 selects PBKDF2-HMAC-SHA256. This is the default.
	NamePBKDF2 = "pbkdf2"
	// NameScrypt selects scrypt.
	NameScrypt = "scrypt"
)

// KDF is a password-based key derivation function with its parameters
// (including the salt) already fixed.
type KDF interface {
	// DeriveKey returns a cryptocore.KeyLen-byte key.
	DeriveKey(pw []byte) ([]byte, error)
	// String describes the function and its cost for the tag report.
	String() string
}

// New returns the KDF called "name" using "salt". "cost" is the iteration
// count for PBKDF2 and logN for scrypt. Zero selects the default.
func New(name string, salt []byte, cost int) (KDF, error) {
	switch name {
	case NamePBKDF2, "":
		k := NewPBKDF2KDF(salt, cost)
		return &k, nil
	case NameScrypt:
		k := NewScryptKDF(salt, cost)
		return &k, nil
	}
	return nil, exitcodes.NewErr(fmt.Sprintf("unknown KDF %q, valid values: %s, %s", name, NamePBKDF2, NameScrypt),
		exitcodes.Usage)
}

func checkSalt(salt []byte) error {
	if len(salt) < cryptocore.SaltLen {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: salt length below minimum: value=%d, min=%d",
			len(salt), cryptocore.SaltLen), exitcodes.KDFParams)
	}
	return nil
}
