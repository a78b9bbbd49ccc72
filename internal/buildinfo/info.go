// Package buildinfo holds version metadata stamped in at build time with
// -ldflags "-X github.com/cleared-dev/releve/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the line printed by `releve --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
