package main

import (
	"errors"

	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/kdf"
	"github.com/rfjakob/gcmseal/internal/keynorm"
	"github.com/rfjakob/gcmseal/internal/readpassword"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// keySource hands out a CryptoCore for every file. With an explicit key
// there is a single shared instance. In passphrase mode every salt gets its
// own key, derived with the selected KDF.
type keySource struct {
	// core is set when the key was given directly
	core *cryptocore.CryptoCore
	// pw is set in passphrase mode
	pw      []byte
	kdfName string
	kdfCost int
}

// newKeySource sets up the key from "-key", or reads the passphrase once.
// "confirm" asks twice on a terminal.
func newKeySource(args *argContainer, confirm bool) (*keySource, error) {
	ks := &keySource{
		kdfName: args.kdf,
		kdfCost: args.kdfCost(),
	}
	if args.key != "" {
		if pw, ok := keynorm.Passphrase(args.key); ok {
			if pw == "" {
				return nil, exitcodes.NewErr("Empty passphrase after \"pass:\"", exitcodes.PasswordEmpty)
			}
			tlog.Info.Printf(tlog.ColorYellow +
				"THE PASSPHRASE IS VISIBLE VIA \"ps ax\" AND MAY BE STORED IN YOUR SHELL HISTORY!" +
				tlog.ColorReset)
			ks.pw = []byte(pw)
			return ks, nil
		}
		key, err := keynorm.Normalize(args.key)
		if err != nil {
			return nil, exitcodes.Wrap(err, exitcodes.LoadKey)
		}
		ks.core, err = cryptocore.New(key)
		if err != nil {
			return nil, exitcodes.Wrap(err, exitcodes.LoadKey)
		}
		return ks, nil
	}
	var err error
	if confirm {
		ks.pw, err = readpassword.Twice(args.extpass, args.passfile)
	} else {
		ks.pw, err = readpassword.Once(args.extpass, args.passfile, "")
	}
	if err != nil {
		var ec exitcodes.Err
		if errors.As(err, &ec) {
			return nil, err
		}
		return nil, exitcodes.Wrap(err, exitcodes.ReadPassword)
	}
	return ks, nil
}

// isPassKey is true if "-key" holds a passphrase instead of a key.
func isPassKey(key string) bool {
	_, ok := keynorm.Passphrase(key)
	return ok
}

// passphraseMode is true when keys are derived from a passphrase. Sealed
// files then carry a salt.
func (ks *keySource) passphraseMode() bool {
	return ks.core == nil
}

// coreFor returns the CryptoCore for "salt". In passphrase mode it also
// returns the KDF that was used, so it can be documented in the tag report.
// "salt" is ignored when the key was given directly.
func (ks *keySource) coreFor(salt []byte) (*cryptocore.CryptoCore, kdf.KDF, error) {
	if !ks.passphraseMode() {
		return ks.core, nil, nil
	}
	k, err := kdf.New(ks.kdfName, salt, ks.kdfCost)
	if err != nil {
		return nil, nil, err
	}
	tlog.Debug.Printf("coreFor: deriving key using %s", k)
	key, err := k.DeriveKey(ks.pw)
	if err != nil {
		return nil, nil, err
	}
	cc, err := cryptocore.New(key)
	// Wipe the derived key from memory, cryptocore has expanded it
	for i := range key {
		key[i] = 0
	}
	if err != nil {
		return nil, nil, exitcodes.Wrap(err, exitcodes.LoadKey)
	}
	return cc, k, nil
}
