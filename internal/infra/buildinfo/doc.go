// Package buildinfo exposes build-time information injected via
// ldflags: Version, Commit, BuildTime and GoVersion.
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/authfront/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
