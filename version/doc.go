// Package version reports build information for recordd.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/recordkit/version.Version=1.0.0" ./cmd/recordd
//
// Missing values fall back to the VCS stamps embedded by the Go toolchain.
package version
