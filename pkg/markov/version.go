// Package markov searches the space of Markov-style string rewriting
// programs for one that reproduces a set of input/output examples.
//
// Version: 0.1.0
//
// Programs are numbered bijectively (see EncodeProgram), rejected early
// when they provably cannot help (Prune), and run under step and length
// bounds (Evaluate). Searcher ties the three together.
package markov

// Version represents the current version of gomarkov.
const Version = "0.1.0"

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GoVersion: "1.25+",
	}
}
