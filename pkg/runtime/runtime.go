package runtime

var (
	// Version of the build, set via ldflags
	Version = "0.0.0-dev"
	// GitCommit the build was made from
	GitCommit = ""
	// Timestamp of the build
	Timestamp = ""
)
