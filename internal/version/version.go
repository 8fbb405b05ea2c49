package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/dots/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/dots/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/dots/internal/version.Date={{.Date}}
)

// String is the multi-line text printed by the version command.
func String() string {
	return "dots version " + Version + "\n  commit: " + Commit + "\n  built:  " + Date + "\n"
}
