package blockx

import "fmt"

// Version is the release of this module. blockx-gen reports it as its own.
const Version = "0.1.0"

// Stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/hengadev/blockx.GitCommit=$(git rev-parse HEAD)"
var (
	GitCommit string
	BuildDate string
)

const shortCommitLen = 7

// VersionDetails identifies a build of blockx.
type VersionDetails struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// FullVersionInfo snapshots the release and link-time stamps.
func FullVersionInfo() VersionDetails {
	return VersionDetails{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

// VersionInfo is FullVersionInfo().String().
func VersionInfo() string {
	return FullVersionInfo().String()
}

// String renders "blockx v0.1.0", or "blockx v0.1.0-abc1234 (date)" for a
// stamped build.
func (v VersionDetails) String() string {
	if v.GitCommit == "" {
		return fmt.Sprintf("blockx v%s", v.Version)
	}
	return fmt.Sprintf("blockx v%s-%s (%s)", v.Version, shortCommit(v.GitCommit), v.BuildDate)
}

func shortCommit(commit string) string {
	if len(commit) > shortCommitLen {
		return commit[:shortCommitLen]
	}
	return commit
}
