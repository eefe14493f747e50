package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/rfjakob/gcmseal/internal/container"
	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/gcm"
	"github.com/rfjakob/gcmseal/internal/tagio"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// doMac handles "-mac". Without "-verify" it computes a GMAC tag over the
// content of the file using a fresh nonce and prints it as a report.
func doMac(args *argContainer) error {
	data, err := readInput(args.mac)
	if err != nil {
		return err
	}
	ks, err := newKeySource(args, false)
	if err != nil {
		return err
	}
	if args.verify != "" {
		return verifyMac(ks, args, data)
	}
	if err := checkOverwrite(args.report, args.force); err != nil {
		return err
	}
	var salt []byte
	if ks.passphraseMode() {
		salt = cryptocore.NewSalt()
	}
	cc, k, err := ks.coreFor(salt)
	if err != nil {
		return err
	}
	nonce := cc.IVGenerator.Get()
	tag, err := cc.MAC.GenerateTag(nonce, data)
	if err != nil {
		return err
	}
	rep := &tagio.Report{
		Tag:  tag,
		IV:   nonce,
		Salt: salt,
	}
	if k != nil {
		rep.KDF = k.String()
	}
	rep.WriteTo(os.Stdout)
	if args.report != "" {
		if err := tagio.WriteReportFile(args.report, rep); err != nil {
			return exitcodes.Wrap(err, exitcodes.WriteOutput)
		}
	}
	return nil
}

// verifyMac checks "-verify TAG -nonce NONCE [-salt SALT]" against "data".
func verifyMac(ks *keySource, args *argContainer, data []byte) error {
	tag, err := decodeHexArg("verify", args.verify, gcm.TagSize)
	if err != nil {
		return err
	}
	nonce, err := decodeHexArg("nonce", args.nonce, gcm.NonceSize)
	if err != nil {
		return err
	}
	var salt []byte
	if ks.passphraseMode() {
		if args.salt == "" {
			return exitcodes.NewErr("Passphrase mode: -verify also needs the -salt the tag was computed with",
				exitcodes.Usage)
		}
		salt, err = decodeHexArg("salt", args.salt, container.SaltLen)
		if err != nil {
			return err
		}
	}
	cc, _, err := ks.coreFor(salt)
	if err != nil {
		return err
	}
	err = cc.MAC.Verify(nonce, data, tag)
	if errors.Is(err, gcm.ErrAuth) {
		return exitcodes.NewErr(fmt.Sprintf("%s: GMAC tag mismatch", args.mac), exitcodes.AuthFailed)
	} else if err != nil {
		return err
	}
	tlog.Info.Println(tlog.ColorGreen + "Tag OK" + tlog.ColorReset)
	return nil
}

// decodeHexArg decodes the hex value of cli option "name" and checks that it
// has "wantLen" bytes.
func decodeHexArg(name string, s string, wantLen int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, exitcodes.NewErr(fmt.Sprintf("-%s: %v", name, err), exitcodes.Usage)
	}
	if len(b) != wantLen {
		return nil, exitcodes.NewErr(fmt.Sprintf("-%s: need %d bytes, got %d", name, wantLen, len(b)),
			exitcodes.Usage)
	}
	return b, nil
}
