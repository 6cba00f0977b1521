// Package version reports the structless build version.
package version

import "runtime/debug"

// Version is overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/structless/pkg/version.Version=v1.2.3"
var Version = "dev"

// String returns Version, or the module version recorded by
// `go install` when no ldflags value was set.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
