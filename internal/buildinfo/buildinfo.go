package buildinfo

import "fmt"

// Overridden at build time with -ldflags "-X devopsdemo/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("devopsdemo %s (commit=%s, date=%s)", Version, Commit, Date)
}
