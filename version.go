package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"

	"github.com/rfjakob/gcmseal/internal/tlog"
)

const (
	gitVersionNotSet = "[GitVersion not set - please build with -ldflags -X main.GitVersion=...]"
	buildDateNotSet  = "0000-00-00"
)

var (
	// GitVersion is the gcmseal version according to git, set via -ldflags
	GitVersion = gitVersionNotSet
	// BuildDate is a date string like "2017-09-06", set via -ldflags
	BuildDate = buildDateNotSet
)

func init() {
	versionFromBuildInfo()
}

// printVersion prints a version string like this:
// gcmseal v1.0-3-gcf99cfd; 2019-05-12 go1.12 linux/amd64
func printVersion() {
	fmt.Printf("%s %s; %s %s %s/%s\n",
		tlog.ProgramName, GitVersion, BuildDate, runtime.Version(),
		runtime.GOOS, runtime.GOARCH)
}

// versionFromBuildInfo tries to get some information out of the information baked in
// by the Go compiler. Does nothing when the versions were set via -ldflags.
func versionFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		tlog.Debug.Println("versionFromBuildInfo: ReadBuildInfo() failed")
		return
	}
	// Parse BuildSettings
	var vcsRevision, vcsTime string
	var vcsModified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			vcsRevision = s.Value
		case "vcs.time":
			vcsTime = s.Value
		case "vcs.modified":
			vcsModified, _ = strconv.ParseBool(s.Value)
		}
	}
	// Fill our version strings
	if GitVersion == gitVersionNotSet {
		GitVersion = info.Main.Version
		if GitVersion == "(devel)" && vcsRevision != "" {
			GitVersion = fmt.Sprintf("vcs.revision=%s", vcsRevision)
		}
		if vcsModified {
			GitVersion += "-dirty"
		}
	}
	if BuildDate == buildDateNotSet {
		if vcsTime != "" {
			BuildDate = fmt.Sprintf("vcs.time=%s", vcsTime)
		}
	}
}
