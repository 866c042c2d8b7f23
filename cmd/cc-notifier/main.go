package main

// Build-time version info, set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute(version, commit, date)
}
