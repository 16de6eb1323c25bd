// Package version reports the build version of the imgtype binary.
package version

import (
	"strings"
)

// Name is the binary name used in version output.
const Name = "imgtype"

// Version and Commit are set at build time:
//
//	go build -ldflags "-X github.com/lucas-albers-lz4/imgtype/pkg/version.Version=v0.3.0 -X github.com/lucas-albers-lz4/imgtype/pkg/version.Commit=abc1234"
var (
	Version = "dev"
	Commit  = ""
)

// normalize strips a leading 'v' and any build metadata after '+'.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	v, _, _ = strings.Cut(v, "+")
	if v == "" {
		return "dev"
	}
	return v
}

// String renders "imgtype <version>", with the commit in parentheses when known.
func String() string {
	s := Name + " " + normalize(Version)
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	return s
}
