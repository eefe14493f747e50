package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rfjakob/gcmseal/internal/batch"
	"github.com/rfjakob/gcmseal/internal/container"
	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/tagio"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

const (
	defaultCipherOutput = "cipher_output.bin"
	defaultTagOutput    = "tag_output.bin"
	defaultReportOutput = "tag_output.txt"
	defaultPlainOutput  = "plain_output.bin"
	// sealedSuffix is appended to file names in directory mode
	sealedSuffix = ".gcm"
	tagSuffix    = ".tag"
)

// sealTarget says where the results of sealing one file go.
type sealTarget struct {
	container string
	// tag, report may be empty to skip writing them
	tag, report string
	xattr       bool
}

// doEncrypt handles "-encrypt". "in" may be a file or a directory.
func doEncrypt(args *argContainer) error {
	fi, err := os.Stat(args.encrypt)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.ReadInput)
	}
	ks, err := newKeySource(args, true)
	if err != nil {
		return err
	}
	aad, err := readAAD(args.aad)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return encryptDir(ks, args, aad)
	}
	t := sealTarget{
		container: args.out,
		tag:       args.tag,
		report:    args.report,
		xattr:     args.xattr,
	}
	if t.container == "" {
		t.container = defaultCipherOutput
	}
	if t.tag == "" {
		t.tag = defaultTagOutput
	}
	if t.report == "" {
		t.report = defaultReportOutput
	}
	for _, p := range []string{t.container, t.tag, t.report} {
		if err := checkOverwrite(p, args.force); err != nil {
			return err
		}
	}
	rep, err := sealFile(ks, args.encrypt, aad, t, !args.noselfcheck)
	if err != nil {
		return err
	}
	tlog.Info.Printf("%s", rep.String())
	tlog.Info.Printf(tlog.ColorGreen+"Sealed %q into %q, tag in %q"+tlog.ColorReset,
		args.encrypt, t.container, t.tag)
	return nil
}

// encryptDir seals every file below args.encrypt into the "-o" directory,
// keeping the relative layout. Each file gets its own nonce (and salt in
// passphrase mode) and a "<name>.gcm.tag" file next to "<name>.gcm".
func encryptDir(ks *keySource, args *argContainer, aad []byte) error {
	if args.out == "" {
		return exitcodes.NewErr("Directory mode requires -o OUTDIR", exitcodes.Usage)
	}
	outDir := args.out
	if isInside(outDir, args.encrypt) {
		return exitcodes.NewErr("The output directory must not be inside the input directory", exitcodes.Usage)
	}
	opts := batch.Options{
		Exclude:         args.exclude,
		ExcludeWildcard: args.excludeWildcard,
		ExcludeFrom:     args.excludeFrom,
		Jobs:            args.jobs,
	}
	n, err := batch.Run(context.Background(), args.encrypt, opts, func(ctx context.Context, path string, rel string) error {
		dst := filepath.Join(outDir, filepath.FromSlash(rel)+sealedSuffix)
		t := sealTarget{
			container: dst,
			tag:       dst + tagSuffix,
			xattr:     args.xattr,
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, p := range []string{t.container, t.tag} {
			if err := checkOverwrite(p, args.force); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
			return exitcodes.Wrap(err, exitcodes.WriteOutput)
		}
		_, err := sealFile(ks, path, aad, t, !args.noselfcheck)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		tlog.Debug.Printf("encryptDir: %q -> %q", rel, dst)
		return nil
	})
	tlog.Info.Printf("Sealed %d files", n)
	return err
}

// sealFile encrypts the file "in" and writes the container, the tag and
// optionally the report and the xattr according to "t".
// The returned report describes the sealed file.
func sealFile(ks *keySource, in string, aad []byte, t sealTarget, selfcheck bool) (*tagio.Report, error) {
	plaintext, err := readInput(in)
	if err != nil {
		return nil, err
	}
	var salt []byte
	if ks.passphraseMode() {
		salt = cryptocore.NewSalt()
	}
	cc, k, err := ks.coreFor(salt)
	if err != nil {
		return nil, err
	}
	nonce := cc.IVGenerator.Get()
	ciphertext, tag, err := cc.AEAD.Encrypt(nonce, plaintext, aad)
	if err != nil {
		return nil, err
	}
	if selfcheck {
		check, err := cc.AEAD.Decrypt(nonce, ciphertext, aad, tag)
		if err != nil || !bytes.Equal(check, plaintext) {
			return nil, exitcodes.NewErr(fmt.Sprintf("%s: self-check failed: decrypted data differs from input (err=%v)",
				in, err), exitcodes.SelfCheck)
		}
	}
	c := container.Container{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	if err := writeOutput(t.container, c.Pack()); err != nil {
		return nil, err
	}
	rep := &tagio.Report{
		Tag:         tag,
		IV:          nonce,
		Salt:        salt,
		CipherBytes: len(ciphertext),
	}
	if k != nil {
		rep.KDF = k.String()
	}
	// A container without its tag is useless, so remove what was written
	// so far if the tag or the report cannot be stored.
	written := []string{t.container}
	fail := func(err error) (*tagio.Report, error) {
		for _, p := range written {
			os.Remove(p)
		}
		return nil, exitcodes.Wrap(err, exitcodes.WriteOutput)
	}
	if t.tag != "" {
		if err := tagio.WriteTagFile(t.tag, tag); err != nil {
			return fail(err)
		}
		written = append(written, t.tag)
	}
	if t.report != "" {
		if err := tagio.WriteReportFile(t.report, rep); err != nil {
			return fail(err)
		}
	}
	if t.xattr {
		if err := tagio.SetXattr(t.container, tag); err != nil {
			// The tag file is still there, so this is not fatal
			tlog.Warn.Printf("%s: could not store tag in xattr: %v", t.container, err)
		}
	}
	return rep, nil
}
