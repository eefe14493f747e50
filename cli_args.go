package main

import (
	"fmt"
	"strings"

	"github.com/integrii/flaggy"

	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/kdf"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// argContainer stores the parsed CLI options and arguments
type argContainer struct {
	// Operation flags. Exactly one of encrypt, decrypt, mac must be set,
	// unless one of the informational flags (speed, version, help, hh) is.
	encrypt, decrypt, mac string
	speed, version, help, hh bool
	// "-mac" verification mode
	verify, nonce, salt string
	// Key sources
	key        string
	passphrase bool
	// -extpass and -passfile can be passed multiple times
	extpass, passfile []string
	// Input and output files
	aad, out, tag, report string
	xattr, force, noselfcheck bool
	// Key derivation in passphrase mode
	kdf                 string
	pbkdf2Iter, scryptn int
	// Directory mode. All exclusion options can be specified multiple times.
	exclude, excludeWildcard, excludeFrom []string
	jobs                                  int
	// Logging and debugging
	debug, quiet, wpanic   bool
	cpuprofile, memprofile string
}

// flagParser is kept around for "-hh", which prints all flags.
var flagParser *flaggy.Parser

// parseCliOpts - parse command line options (i.e. arguments that start with "-")
func parseCliOpts(osArgs []string) (args argContainer, err error) {
	p := flaggy.NewParser(tlog.ProgramName)
	p.Description = "AES-256-GCM authenticated encryption and GMAC tags for files"
	p.ShowVersionWithVersionFlag = false
	p.ShowHelpWithHFlag = false
	flagParser = p

	p.String(&args.encrypt, "", "encrypt", "Seal FILE or every file below a directory")
	p.String(&args.decrypt, "", "decrypt", "Verify and open a sealed FILE or directory")
	p.String(&args.mac, "", "mac", "Compute a GMAC tag over the content of FILE")
	p.Bool(&args.speed, "", "speed", "Run crypto speed test")
	p.Bool(&args.version, "", "version", "Print version and exit")
	p.Bool(&args.help, "h", "help", "Short help text")
	p.Bool(&args.hh, "", "hh", "Show this long help text")

	p.String(&args.verify, "", "verify", "With -mac: check this hex tag instead of computing a new one")
	p.String(&args.nonce, "", "nonce", "With -verify: hex nonce the tag was computed with")
	p.String(&args.salt, "", "salt", "With -verify in passphrase mode: hex salt the key was derived with")

	p.String(&args.key, "", "key", "Key as 64 hex digits or a decimal number, or \"pass:PASSPHRASE\"")
	p.Bool(&args.passphrase, "", "passphrase", "Prompt for a passphrase and derive the key from it")
	p.StringSlice(&args.extpass, "", "extpass", "Use external program for the passphrase prompt")
	p.StringSlice(&args.passfile, "", "passfile", "Read passphrase from file")

	p.String(&args.aad, "", "aad", "Authenticate the content of this file as additional data")
	p.String(&args.out, "o", "out", "Output file, or output directory in directory mode")
	p.String(&args.tag, "", "tag", "Tag file to write (-encrypt) or read (-decrypt)")
	p.String(&args.report, "", "report", "Human-readable tag report to write")
	p.Bool(&args.xattr, "", "xattr", "Also store the tag in an extended attribute of the sealed file")
	p.Bool(&args.force, "f", "force", "Overwrite existing output files")
	p.Bool(&args.noselfcheck, "", "noselfcheck", "Skip decrypting the sealed data once after -encrypt")

	args.kdf = kdf.NamePBKDF2
	p.String(&args.kdf, "", "kdf", "Key derivation function for passphrase mode: pbkdf2 or scrypt")
	args.pbkdf2Iter = kdf.PBKDF2DefaultIter
	p.Int(&args.pbkdf2Iter, "", "pbkdf2-iter", "PBKDF2 iteration count")
	args.scryptn = kdf.ScryptDefaultLogN
	p.Int(&args.scryptn, "", "scryptn", "scrypt cost parameter logN. Possible values: 10-28. "+
		"A lower value speeds up sealing and reduces its memory needs, but makes the passphrase susceptible to brute-force attacks")

	// Exclusion options
	p.StringSlice(&args.exclude, "e", "exclude", "Exclude relative path in directory mode")
	p.StringSlice(&args.excludeWildcard, "ew", "exclude-wildcard", "Exclude path in directory mode, supporting wildcards")
	p.StringSlice(&args.excludeFrom, "", "exclude-from", "File from which to read exclusion patterns (with -exclude-wildcard syntax)")
	p.Int(&args.jobs, "j", "jobs", "Number of files processed in parallel in directory mode. 0 means one per CPU")

	p.Bool(&args.debug, "d", "debug", "Enable debug output")
	p.Bool(&args.quiet, "q", "quiet", "Quiet - silence informational messages")
	p.Bool(&args.wpanic, "", "wpanic", "When encountering a warning, panic and exit immediately")
	p.String(&args.cpuprofile, "", "cpuprofile", "Write cpu profile to specified file")
	p.String(&args.memprofile, "", "memprofile", "Write memory profile to specified file")

	// Actual parsing
	if len(osArgs) > 0 {
		osArgs = osArgs[1:]
	}
	err = p.ParseArgs(osArgs)
	if err != nil {
		return args, exitcodes.NewErr(fmt.Sprintf("Invalid command line: %v. Try '%s -help'.",
			err, tlog.ProgramName), exitcodes.Usage)
	}
	if args.help || args.hh || args.version || args.speed {
		return args, nil
	}
	return args, checkArgs(&args)
}

// checkArgs rejects option combinations that make no sense.
func checkArgs(args *argContainer) error {
	usage := func(format string, a ...interface{}) error {
		return exitcodes.NewErr(fmt.Sprintf(format, a...), exitcodes.Usage)
	}
	if n := countOpFlags(args); n != 1 {
		return usage("Exactly one of -encrypt, -decrypt, -mac must be given (have %d)", n)
	}
	if len(args.extpass) > 0 && len(args.passfile) > 0 {
		return usage("The options -extpass and -passfile cannot be used at the same time")
	}
	// -extpass and -passfile imply -passphrase
	if len(args.extpass) > 0 || len(args.passfile) > 0 {
		args.passphrase = true
	}
	if args.key != "" && args.passphrase {
		return usage("The option -key cannot be combined with -passphrase, -passfile or -extpass")
	}
	if args.key == "" && !args.passphrase {
		return usage("No key given. Use -key or -passphrase.")
	}
	if args.verify != "" {
		if args.mac == "" {
			return usage("The option -verify requires -mac")
		}
		if args.nonce == "" {
			return usage("The option -verify requires -nonce")
		}
	} else if args.nonce != "" || args.salt != "" {
		return usage("The options -nonce and -salt are only valid together with -verify")
	}
	switch strings.ToLower(args.kdf) {
	case kdf.NamePBKDF2, kdf.NameScrypt:
		args.kdf = strings.ToLower(args.kdf)
	default:
		return usage("Invalid -kdf %q, valid values: %s, %s", args.kdf, kdf.NamePBKDF2, kdf.NameScrypt)
	}
	if args.jobs < 0 {
		return usage("The number of jobs cannot be less than 0")
	}
	if args.out != "" && (args.out == args.encrypt || args.out == args.decrypt) {
		return usage("Input and output must be different files")
	}
	return nil
}

// countOpFlags counts the number of operation flags we were passed.
func countOpFlags(args *argContainer) int {
	var count int
	for _, op := range []string{args.encrypt, args.decrypt, args.mac} {
		if op != "" {
			count++
		}
	}
	return count
}

// kdfCost returns the cost parameter matching the selected KDF.
func (args *argContainer) kdfCost() int {
	if args.kdf == kdf.NameScrypt {
		return args.scryptn
	}
	return args.pbkdf2Iter
}
