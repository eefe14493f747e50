package main

import (
	"os"

	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/speed"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

func main() {
	args, err := parseCliOpts(os.Args)
	if err == nil {
		err = run(&args)
	}
	if err != nil {
		tlog.Fatal.Println(err)
		exitcodes.Exit(err)
	}
}

// run executes the operation selected in "args".
func run(args *argContainer) error {
	if args.debug {
		tlog.Debug.Enabled = true
	}
	// "-q"
	if args.quiet {
		tlog.Info.Enabled = false
	}
	if args.wpanic {
		tlog.Warn.Wpanic = true
		tlog.Debug.Printf("Panicing on warnings")
	}
	// "-version"
	if args.version {
		printVersion()
		return nil
	}
	// "-hh"
	if args.hh {
		helpLong()
		return nil
	}
	// "-h"
	if args.help {
		helpShort()
		return nil
	}
	// "-speed"
	if args.speed {
		printVersion()
		speed.Run()
		return nil
	}
	// "-cpuprofile"
	if args.cpuprofile != "" {
		stop, err := setupCpuprofile(args.cpuprofile)
		if err != nil {
			return err
		}
		defer stop()
	}
	// "-memprofile"
	if args.memprofile != "" {
		stop, err := setupMemprofile(args.memprofile)
		if err != nil {
			return err
		}
		defer stop()
	}
	tlog.Debug.Printf("passphrase mode: %v, kdf: %s", args.passphrase || isPassKey(args.key), args.kdf)
	switch {
	case args.encrypt != "":
		return doEncrypt(args)
	case args.decrypt != "":
		return doDecrypt(args)
	case args.mac != "":
		return doMac(args)
	}
	// parseCliOpts makes sure we never get here
	return exitcodes.NewErr("no operation selected", exitcodes.Usage)
}
