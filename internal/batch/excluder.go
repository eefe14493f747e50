package batch

import (
	"io/ioutil"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/rfjakob/gcmseal/internal/exitcodes"
)

// prepareExcluder creates an object to check if paths are excluded
// based on the patterns specified in the command line.
// Returns nil if there are no patterns.
func prepareExcluder(opts Options) (*ignore.GitIgnore, error) {
	patterns, err := getExclusionPatterns(opts)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(patterns...), nil
}

// getExclusionPatterns prepares a list of patterns to be excluded.
// Patterns passed in -exclude are prefixed with a leading '/' so that they
// only match relative to the top directory. -exclude-wildcard patterns and
// the lines of -exclude-from files use full gitignore syntax.
func getExclusionPatterns(opts Options) ([]string, error) {
	patterns := make([]string, len(opts.Exclude)+len(opts.ExcludeWildcard))
	// add -exclude
	for i, p := range opts.Exclude {
		patterns[i] = "/" + p
	}
	// add -exclude-wildcard
	copy(patterns[len(opts.Exclude):], opts.ExcludeWildcard)
	// add -exclude-from
	for _, file := range opts.ExcludeFrom {
		lines, err := getLines(file)
		if err != nil {
			return nil, exitcodes.NewErr("Error reading exclusion patterns: "+err.Error(), exitcodes.ExcludeError)
		}
		patterns = append(patterns, lines...)
	}
	return patterns, nil
}

// getLines reads a file and splits it into lines
func getLines(file string) ([]string, error) {
	buffer, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(buffer), "\n"), nil
}
