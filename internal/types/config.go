// Package types defines data structures for license-check configuration and results.
package types

// Config is the raw per-run configuration surface, loaded from
// .license-check.yml and overridable from command-line flags. Regex strings
// are compiled (and invalid ones dropped with a warning) when the config is
// turned into a core.PolicySet.
type Config struct {
	Excludes         []string `yaml:"excludes"`           // Exact coordinate strings to skip
	ExcludesRegex    []string `yaml:"excludes_regex"`     // Full-match patterns against coordinates
	ExcludedScopes   []string `yaml:"excluded_scopes"`    // Dependency scopes to skip (e.g. test, provided)
	Blacklist        []string `yaml:"blacklist"`          // License codes that always fail the build
	Whitelist        []string `yaml:"whitelist"`          // When non-empty, the only codes that pass
	ExcludeNoLicense bool     `yaml:"exclude_no_license"` // Do not fail the build on undetermined licenses
	MaxSearchDepth   *int     `yaml:"max_search_depth"`   // Parent-chain recursion bound; nil = default, 0 = never consult a parent
	Repositories     []string `yaml:"repositories"`       // Remote repository base URLs
	LocalRepository  string   `yaml:"local_repository"`   // Local repository root (default ~/.m2/repository)
	Parallelism      int      `yaml:"parallelism"`        // Worker count for the check loop (default 1)
}

// DefaultMaxSearchDepth bounds parent-chain recursion when the config does
// not set one. Deep enough for any sane inheritance chain, small enough to
// terminate on a malformed circular pom.
const DefaultMaxSearchDepth = 12

// DefaultRepository is the remote repository consulted when none are configured.
const DefaultRepository = "https://repo.maven.apache.org/maven2"
