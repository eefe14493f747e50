package kdf

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
)

const (
	// PBKDF2DefaultIter is the iteration count files are sealed with unless
	// "-pbkdf2-iter" says otherwise.
	PBKDF2DefaultIter = 100000
	// 1000 is the minimum recommended by RFC 8018, section 4.2.
	pbkdf2MinIter = 1000
)

// PBKDF2KDF is PBKDF2 with HMAC-SHA256 as the PRF.
type PBKDF2KDF struct {
	// Salt is the random salt that is passed to PBKDF2
	Salt []byte
	// Iter is the iteration count
	Iter int
	// KeyLen is the output data length
	KeyLen int
}

// NewPBKDF2KDF returns a new instance of PBKDF2KDF.
func NewPBKDF2KDF(salt []byte, iter int) PBKDF2KDF {
	if iter <= 0 {
		iter = PBKDF2DefaultIter
	}
	return PBKDF2KDF{
		Salt:   salt,
		Iter:   iter,
		KeyLen: cryptocore.KeyLen,
	}
}

// DeriveKey returns a new key from a supplied password.
func (k *PBKDF2KDF) DeriveKey(pw []byte) ([]byte, error) {
	if err := k.validateParams(); err != nil {
		return nil, err
	}
	return pbkdf2.Key(pw, k.Salt, k.Iter, k.KeyLen, sha256.New), nil
}

func (k *PBKDF2KDF) String() string {
	return fmt.Sprintf("PBKDF2: HMAC-SHA256, %d iterations", k.Iter)
}

func (k *PBKDF2KDF) validateParams() error {
	if k.Iter < pbkdf2MinIter {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: PBKDF2 iteration count below minimum: value=%d, min=%d",
			k.Iter, pbkdf2MinIter), exitcodes.KDFParams)
	}
	if k.KeyLen < cryptocore.KeyLen {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: PBKDF2 parameter KeyLen below minimum: value=%d, min=%d",
			k.KeyLen, cryptocore.KeyLen), exitcodes.KDFParams)
	}
	return checkSalt(k.Salt)
}
