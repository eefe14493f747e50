package readpassword

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rfjakob/gcmseal/internal/tlog"
)

// readPassFileConcatenate reads the first line from each file name and
// concatenates the results. The result does not contain any newlines.
func readPassFileConcatenate(passfileSlice []string) (result []byte, err error) {
	for _, e := range passfileSlice {
		add, err := readPassFile(e)
		if err != nil {
			return nil, err
		}
		result = append(result, add...)
	}
	if len(result) > maxPasswordLen {
		return nil, fmt.Errorf("fatal: passfile: max password length (%d bytes) exceeded", maxPasswordLen)
	}
	return result, nil
}

// readPassFile returns the first line of "passfile". Anything after the
// first newline is ignored with a warning.
func readPassFile(passfile string) ([]byte, error) {
	tlog.Info.Printf("passfile: reading from file %q", passfile)
	f, err := os.Open(passfile)
	if err != nil {
		return nil, fmt.Errorf("fatal: passfile: could not open %q: %v", passfile, err)
	}
	defer f.Close()
	// +1 for an optional trailing newline,
	// +2 so we can detect if maxPasswordLen is exceeded.
	buf := make([]byte, maxPasswordLen+2)
	n, err := io.ReadFull(f, buf)
	if n == 0 {
		return nil, fmt.Errorf("fatal: passfile: %q is empty", passfile)
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("fatal: passfile: could not read from %q: %v", passfile, err)
	}
	line, rest := buf[:n], []byte(nil)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line, rest = line[:i], line[i+1:]
	}
	if len(line) == 0 {
		return nil, fmt.Errorf("fatal: passfile: empty first line in %q", passfile)
	}
	if len(line) > maxPasswordLen {
		return nil, fmt.Errorf("fatal: passfile: max password length (%d bytes) exceeded", maxPasswordLen)
	}
	if len(rest) > 0 {
		tlog.Warn.Printf("warning: passfile: ignoring trailing garbage (%d bytes) after first line",
			len(rest))
	}
	return line, nil
}
