package kdf

import (
	"fmt"
	"log"
	"math"

	"golang.org/x/crypto/scrypt"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
)

const (
	// ScryptDefaultLogN is the default scrypt logN configuration parameter.
	// logN=16 (N=2^16) uses 64MB of memory.
	ScryptDefaultLogN = 16
	// From RFC7914, section 2:
	// At the current time, r=8 and p=1 appears to yield good
	// results, but as memory latency and CPU parallelism increase, it is
	// likely that the optimum values for both r and p will increase.
	scryptMinR = 8
	scryptMinP = 1
	// logN=10 takes 6ms on a Pentium G630. We reject lower values.
	scryptMinLogN = 10
	// logN=28 needs 256 GiB of memory
	scryptMaxLogN = 28
)

// ScryptKDF is an instance of the scrypt key deriviation function.
type ScryptKDF struct {
	// Salt is the random salt that is passed to scrypt
	Salt []byte
	// N: scrypt CPU/Memory cost parameter
	N int
	// R: scrypt block size parameter
	R int
	// P: scrypt parallelization parameter
	P int
	// KeyLen is the output data length
	KeyLen int
}

// NewScryptKDF returns a new instance of ScryptKDF.
func NewScryptKDF(salt []byte, logN int) ScryptKDF {
	var s ScryptKDF
	s.Salt = salt
	if logN <= 0 {
		s.N = 1 << ScryptDefaultLogN
	} else if logN > scryptMaxLogN {
		// Leave N invalid so that validateParams() complains
		s.N = math.MaxInt32
	} else {
		s.N = 1 << uint32(logN)
	}
	s.R = 8 // Always 8
	s.P = 1 // Always 1
	s.KeyLen = cryptocore.KeyLen
	return s
}

// DeriveKey returns a new key from a supplied password.
func (s *ScryptKDF) DeriveKey(pw []byte) ([]byte, error) {
	if err := s.validateParams(); err != nil {
		return nil, err
	}
	k, err := scrypt.Key(pw, s.Salt, s.N, s.R, s.P, s.KeyLen)
	if err != nil {
		log.Panicf("DeriveKey failed: %v", err)
	}
	return k, nil
}

// LogN - N is saved as 2^LogN, but LogN is much easier to work with.
// This function gives you LogN = Log2(N).
func (s *ScryptKDF) LogN() int {
	return int(math.Log2(float64(s.N)) + 0.5)
}

func (s *ScryptKDF) String() string {
	return fmt.Sprintf("scrypt: N=2^%d, r=%d, p=%d", s.LogN(), s.R, s.P)
}

// validateParams checks that all parameters are at or above hardcoded limits.
// This makes sure we do not derive a weak key from a typo on the command
// line.
func (s *ScryptKDF) validateParams() error {
	minN := 1 << scryptMinLogN
	if s.N < minN {
		return exitcodes.NewErr("Fatal: scryptn below 10 is too low to make sense", exitcodes.KDFParams)
	}
	if s.N > 1<<scryptMaxLogN || s.N&(s.N-1) != 0 {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: scrypt parameter N must be a power of two up to 2^%d",
			scryptMaxLogN), exitcodes.KDFParams)
	}
	if s.R < scryptMinR {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: scrypt parameter R below minimum: value=%d, min=%d",
			s.R, scryptMinR), exitcodes.KDFParams)
	}
	if s.P < scryptMinP {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: scrypt parameter P below minimum: value=%d, min=%d",
			s.P, scryptMinP), exitcodes.KDFParams)
	}
	if s.KeyLen < cryptocore.KeyLen {
		return exitcodes.NewErr(fmt.Sprintf("Fatal: scrypt parameter KeyLen below minimum: value=%d, min=%d",
			s.KeyLen, cryptocore.KeyLen), exitcodes.KDFParams)
	}
	return checkSalt(s.Salt)
}
