package main

import (
	"os"
	"runtime/pprof"

	"github.com/rfjakob/gcmseal/internal/exitcodes"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// setupCpuprofile is called to handle a non-empty "-cpuprofile" cli argument.
// The returned function stops the profile.
func setupCpuprofile(cpuprofileArg string) (func(), error) {
	tlog.Info.Printf("Writing CPU profile to %s", cpuprofileArg)
	f, err := os.Create(cpuprofileArg)
	if err != nil {
		return nil, exitcodes.Wrap(err, exitcodes.Profiler)
	}
	err = pprof.StartCPUProfile(f)
	if err != nil {
		f.Close()
		return nil, exitcodes.Wrap(err, exitcodes.Profiler)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// setupMemprofile is called to handle a non-empty "-memprofile" cli argument.
// The heap profile is written when the returned function is called.
func setupMemprofile(memprofileArg string) (func(), error) {
	tlog.Info.Printf("Will write memory profile to %q", memprofileArg)
	f, err := os.Create(memprofileArg)
	if err != nil {
		return nil, exitcodes.Wrap(err, exitcodes.Profiler)
	}
	return func() {
		err := pprof.WriteHeapProfile(f)
		if err != nil {
			tlog.Warn.Printf("memprofile: WriteHeapProfile failed: %v", err)
		}
		f.Close()
	}, nil
}
