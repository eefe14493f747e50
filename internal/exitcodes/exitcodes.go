// Package exitcodes contains all well-defined exit codes that gcmseal
// can return.
package exitcodes

import (
	"errors"
	"os"
)

const (
	// Usage - usage error like wrong cli syntax, wrong number of parameters.
	Usage = 1
	// 2 is reserved because it is used by Go panic

	// LoadKey means the key given on the command line could not be parsed
	LoadKey = 8
	// ReadPassword means something went wrong reading the password
	ReadPassword = 9
	// Other error - please inspect the message
	Other = 11
	// AuthFailed means the tag did not match. Nothing was written.
	AuthFailed = 12
	// KDFParams means that the key derivation function was called with
	// invalid parameters
	KDFParams = 13
	// PasswordEmpty - we received an empty password
	PasswordEmpty = 22
	// ReadInput - an input file (plaintext, container, AAD or tag) could not
	// be read or has the wrong format
	ReadInput = 23
	// WriteOutput - could not write an output file
	WriteOutput = 24
	// Profiler - error occurred when trying to write cpu or memory profile
	Profiler = 25
	// SelfCheck - decrypting the freshly sealed data did not give back the
	// plaintext
	SelfCheck = 26
	// ExcludeError - an error occurred while processing "-exclude"
	ExcludeError = 29
)

// Err wraps an error with an associated numeric exit code
type Err struct {
	error
	code int
}

// NewErr returns an error containing "msg" and the exit code "code".
func NewErr(msg string, code int) Err {
	return Err{
		error: errors.New(msg),
		code:  code,
	}
}

// Wrap attaches exit code "code" to "err".
func Wrap(err error, code int) Err {
	return Err{
		error: err,
		code:  code,
	}
}

// Unwrap gives errors.Is and errors.As access to the wrapped error.
func (e Err) Unwrap() error {
	return e.error
}

// Code returns the exit code for "err", or Other if none is attached.
func Code(err error) int {
	var e Err
	if errors.As(err, &e) {
		return e.code
	}
	return Other
}

// Exit extracts the numeric exit code from "err" (if available) and exits the
// application.
func Exit(err error) {
	os.Exit(Code(err))
}
