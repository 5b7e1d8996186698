package buildinfo

// set via -ldflags at build time
var (
	Version    = "dev"
	CommitHash = "unknown"
)

type BuildInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Name:    "mesatoken",
		Version: Version,
		Commit:  CommitHash,
	}
}
