// Package keynorm parses the key strings accepted on the command line into
// the 32 bytes the cipher needs.
package keynorm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// KeyLen is the output length of Normalize in bytes.
const KeyLen = 32

// ErrEmpty is returned for an empty key string.
var ErrEmpty = errors.New("keynorm: empty key")

var passPrefixes = []string{"pass:", "PASS:", "Pass:"}

// Passphrase reports whether "s" selects passphrase mode and, if so, returns
// the passphrase without its "pass:" prefix.
func Passphrase(s string) (pw string, ok bool) {
	for _, p := range passPrefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):], true
		}
	}
	return "", false
}

// IsDecimal reports whether "s" consists only of the digits 0-9.
func IsDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Normalize converts a decimal or hexadecimal key string to KeyLen bytes.
//
// An all-digit string is read as a decimal number. Anything else is read as
// hex, with spaces removed. The hex digits are then left-padded with zeros
// to 64 digits, or cut down to their last 64 digits.
func Normalize(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	var h string
	if IsDecimal(s) {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("keynorm: cannot parse decimal key")
		}
		h = n.Text(16)
	} else {
		h = strings.Replace(s, " ", "", -1)
		if h == "" {
			return nil, ErrEmpty
		}
	}
	const digits = 2 * KeyLen
	if len(h) < digits {
		h = strings.Repeat("0", digits-len(h)) + h
	} else if len(h) > digits {
		h = h[len(h)-digits:]
	}
	key, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("keynorm: key is neither decimal nor hex: %v", err)
	}
	return key, nil
}
