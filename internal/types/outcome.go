package types

// Outcome classifies the result of checking a single dependency.
type Outcome int

// Outcome constants cover every way a dependency check can end.
const (
	// LicenseValid means the resolved license passed every enabled check.
	LicenseValid Outcome = iota
	// ArtifactExcluded means the artifact matched the exclusion policy and
	// was never resolved or classified.
	ArtifactExcluded
	// LicenseBlacklisted means the resolved license code is on the blacklist.
	LicenseBlacklisted
	// LicenseNotWhitelisted means a whitelist is in force and the resolved
	// license code is not on it.
	LicenseNotWhitelisted
	// LicenseNoInfo means no license could be determined for the artifact.
	LicenseNoInfo
)

// Rank returns the fixed display order of the outcome. Reports are sorted
// by ascending rank, so valid results come first and artifacts with no
// determinable license group last. Rank is used only for sorting and
// display, never for branching logic.
func (o Outcome) Rank() int {
	return int(o)
}

// Label returns the human-readable outcome label used in reports.
func (o Outcome) Label() string {
	switch o {
	case LicenseValid:
		return "VALID"
	case ArtifactExcluded:
		return "ARTIFACT_EXCLUDED"
	case LicenseBlacklisted:
		return "INVALID (blacklisted)"
	case LicenseNotWhitelisted:
		return "INVALID (not recognized)"
	case LicenseNoInfo:
		return "INVALID (no license info)"
	default:
		return "UNKNOWN"
	}
}

// BuildFailing reports whether this outcome can fail the build.
// LicenseNoInfo is build-failing only when the run's ExcludeNoLicense
// setting is false; that suppression is applied by the runner, not here.
func (o Outcome) BuildFailing() bool {
	switch o {
	case LicenseBlacklisted, LicenseNotWhitelisted, LicenseNoInfo:
		return true
	default:
		return false
	}
}
