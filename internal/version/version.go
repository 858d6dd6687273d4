package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/dotrig/dotrig/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/dotrig/dotrig/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/dotrig/dotrig/internal/version.Date={{.Date}}
)
