package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/rfjakob/gcmseal/internal/atomicfile"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
)

// readInput reads a whole input file. Errors carry the ReadInput exit code.
func readInput(path string) ([]byte, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	return buf, nil
}

// readAAD returns the content of the "-aad" file, or nil if none was given.
func readAAD(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return readInput(path)
}

// checkOverwrite fails if "path" exists and "force" is not set.
func checkOverwrite(path string, force bool) error {
	if force || path == "" {
		return nil
	}
	if _, err := os.Lstat(path); err == nil {
		return exitcodes.NewErr(fmt.Sprintf("Output file %q exists. Use -f to overwrite it.", path),
			exitcodes.WriteOutput)
	}
	return nil
}

// writeOutput writes "data" to "path" atomically, see atomicfile.WriteFile.
func writeOutput(path string, data []byte) error {
	if err := atomicfile.WriteFile(path, data, 0600); err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteOutput)
	}
	return nil
}

// isInside is true if "path" equals "dir" or lies below it.
func isInside(path string, dir string) bool {
	a1, err1 := filepath.Abs(path)
	a2, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(a2, a1)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
