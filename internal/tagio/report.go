// Package tagio stores and loads GCM tags next to a sealed file: as a raw
// 16-byte file, as a human-readable report, or in an extended attribute.
package tagio

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
)

// Report line labels
const (
	labelTagHex    = "TAG (hex): "
	labelTagBase64 = "TAG (Base64): "
	labelIV        = "IV (hex): "
	labelSalt      = "Salt (hex): "
	labelCipher    = "Cipher bytes: "
)

// Report is the content of the human-readable tag file.
type Report struct {
	Tag  []byte
	IV   []byte
	Salt []byte
	// KDF describes the key derivation, only set together with Salt
	KDF string
	// CipherBytes is the ciphertext length without salt and nonce
	CipherBytes int
}

// WriteTo writes the report in its text form.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s%s\n", labelTagHex, hex.EncodeToString(r.Tag))
	fmt.Fprintf(&b, "%s%s\n", labelTagBase64, base64.StdEncoding.EncodeToString(r.Tag))
	fmt.Fprintf(&b, "%s%s\n", labelIV, hex.EncodeToString(r.IV))
	if r.Salt != nil {
		fmt.Fprintf(&b, "%s%s\n", labelSalt, hex.EncodeToString(r.Salt))
		if r.KDF != "" {
			fmt.Fprintf(&b, "%s\n", r.KDF)
		}
	}
	fmt.Fprintf(&b, "%s%d\n", labelCipher, r.CipherBytes)
	return b.WriteTo(w)
}

// String returns the text form.
func (r *Report) String() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}

// ParseReport reads a report written by WriteTo. The tag may be given in
// hex, in base64 or both; if both are present they must agree.
func ParseReport(rd io.Reader) (*Report, error) {
	var r Report
	var tagB64 []byte
	s := bufio.NewScanner(rd)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		var err error
		switch {
		case strings.HasPrefix(line, labelTagHex):
			r.Tag, err = hex.DecodeString(strings.TrimSpace(line[len(labelTagHex):]))
		case strings.HasPrefix(line, labelTagBase64):
			tagB64, err = base64.StdEncoding.DecodeString(strings.TrimSpace(line[len(labelTagBase64):]))
		case strings.HasPrefix(line, labelIV):
			r.IV, err = hex.DecodeString(strings.TrimSpace(line[len(labelIV):]))
		case strings.HasPrefix(line, labelSalt):
			r.Salt, err = hex.DecodeString(strings.TrimSpace(line[len(labelSalt):]))
		case strings.HasPrefix(line, labelCipher):
			r.CipherBytes, err = strconv.Atoi(strings.TrimSpace(line[len(labelCipher):]))
		case line != "" && r.Salt != nil && r.KDF == "":
			r.KDF = line
		}
		if err != nil {
			return nil, fmt.Errorf("ParseReport: line %q: %v", line, err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if r.Tag == nil {
		r.Tag = tagB64
	} else if tagB64 != nil && !bytes.Equal(r.Tag, tagB64) {
		return nil, fmt.Errorf("ParseReport: hex and base64 tags differ")
	}
	if len(r.Tag) != cryptocore.AuthTagLen {
		return nil, fmt.Errorf("ParseReport: no valid tag found (got %d bytes)", len(r.Tag))
	}
	return &r, nil
}
