package main

import (
	"fmt"

	"github.com/rfjakob/gcmseal/internal/tlog"
)

const tUsage = "" +
	"Usage: " + tlog.ProgramName + " -encrypt|-decrypt FILE|DIR -key KEY|-passphrase [OPTIONS]\n" +
	"  or   " + tlog.ProgramName + " -mac FILE -key KEY|-passphrase [-verify TAG -nonce IV] [OPTIONS]\n"

// helpShort is what gets displayed when passed "-h" or on syntax error.
func helpShort() {
	printVersion()
	fmt.Printf("\n")
	fmt.Printf(tUsage)
	fmt.Printf(`
Common Options (use -hh to show all):
  -aad               Authenticate the content of this file as additional data
  -decrypt           Verify and open a sealed file or directory
  -encrypt           Seal a file or every file below a directory
  -extpass           Call external program to prompt for the passphrase
  -f, -force         Overwrite existing output files
  -h, -help          This short help text
  -hh                Long help text with all options
  -key               64 hex digits, a decimal number, or "pass:PASSPHRASE"
  -mac               Compute or (with -verify) check a GMAC tag
  -o                 Output file or directory
  -passfile          Read passphrase from plain text file(s)
  -passphrase        Prompt for a passphrase
  -q, -quiet         Silence informational messages
  -speed             Run crypto speed test
  -tag               Tag file to write or read
  -version           Print version information
  -xattr             Store the tag in an extended attribute as well
  --                 Stop option parsing
`)
}

// helpLong gets only displayed on "-hh"
func helpLong() {
	printVersion()
	fmt.Printf("\n")
	fmt.Printf(tUsage)
	fmt.Printf(`
Notes: All options can equivalently use "-" (single dash) or "--" (double dash).
       A standalone "--" stops option parsing.
`)
	fmt.Printf("\n")
	flagParser.ShowHelp()
}
