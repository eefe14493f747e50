package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rfjakob/gcmseal/internal/batch"
	"github.com/rfjakob/gcmseal/internal/container"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/gcm"
	"github.com/rfjakob/gcmseal/internal/tagio"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// doDecrypt handles "-decrypt". "in" may be a sealed file or a directory
// created by "-encrypt DIR".
func doDecrypt(args *argContainer) error {
	fi, err := os.Stat(args.decrypt)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	ks, err := newKeySource(args, false)
	if err != nil {
		return err
	}
	aad, err := readAAD(args.aad)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return decryptDir(ks, args, aad)
	}
	out := args.out
	if out == "" {
		out = defaultPlainOutput
	}
	if err := checkOverwrite(out, args.force); err != nil {
		return err
	}
	tag, err := loadTag(args.decrypt, args.tag, defaultTagOutput)
	if err != nil {
		return err
	}
	if err := openFile(ks, args.decrypt, aad, tag, out); err != nil {
		return err
	}
	tlog.Info.Printf(tlog.ColorGreen+"Tag OK, wrote %q"+tlog.ColorReset, out)
	return nil
}

// decryptDir opens every "*.gcm" file below args.decrypt into the "-o"
// directory, stripping the suffix again.
func decryptDir(ks *keySource, args *argContainer, aad []byte) error {
	if args.out == "" {
		return exitcodes.NewErr("Directory mode requires -o OUTDIR", exitcodes.Usage)
	}
	outDir := args.out
	if isInside(outDir, args.decrypt) {
		return exitcodes.NewErr("The output directory must not be inside the input directory", exitcodes.Usage)
	}
	opts := batch.Options{
		Exclude:         args.exclude,
		ExcludeWildcard: args.excludeWildcard,
		ExcludeFrom:     args.excludeFrom,
		Jobs:            args.jobs,
		Filter: func(rel string) bool {
			return strings.HasSuffix(rel, sealedSuffix)
		},
	}
	n, err := batch.Run(context.Background(), args.decrypt, opts, func(ctx context.Context, path string, rel string) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		dst := filepath.Join(outDir, filepath.FromSlash(strings.TrimSuffix(rel, sealedSuffix)))
		if err := checkOverwrite(dst, args.force); err != nil {
			return err
		}
		tag, err := loadTag(path, "", path+tagSuffix)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
			return exitcodes.Wrap(err, exitcodes.WriteOutput)
		}
		if err := openFile(ks, path, aad, tag, dst); err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		tlog.Debug.Printf("decryptDir: %q -> %q", rel, dst)
		return nil
	})
	tlog.Info.Printf("Opened %d files", n)
	return err
}

// loadTag finds the tag for the sealed file "sealed". An explicit "-tag"
// file wins, then the xattr on the sealed file, then "fallback".
func loadTag(sealed string, explicit string, fallback string) ([]byte, error) {
	path := explicit
	if path == "" {
		if tagio.HasXattr(sealed) {
			tag, err := tagio.GetXattr(sealed)
			if err == nil {
				tlog.Debug.Printf("loadTag: using xattr of %q", sealed)
				return tag, nil
			}
			tlog.Warn.Printf("%v, falling back to %q", err, fallback)
		}
		path = fallback
	}
	tag, err := tagio.ReadTagFile(path)
	if err != nil {
		return nil, exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	return tag, nil
}

// openFile verifies and decrypts the container "in" and writes the plaintext
// to "out". Nothing is written if authentication fails.
func openFile(ks *keySource, in string, aad []byte, tag []byte, out string) error {
	buf, err := readInput(in)
	if err != nil {
		return err
	}
	c, err := container.Parse(buf, ks.passphraseMode())
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	cc, _, err := ks.coreFor(c.Salt)
	if err != nil {
		return err
	}
	plaintext, err := cc.AEAD.Decrypt(c.Nonce, c.Ciphertext, aad, tag)
	if errors.Is(err, gcm.ErrAuth) {
		return exitcodes.NewErr(fmt.Sprintf("%s: authentication failed: wrong key, wrong additional data, or the file or tag was modified",
			in), exitcodes.AuthFailed)
	} else if err != nil {
		return exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	return writeOutput(out, plaintext)
}
