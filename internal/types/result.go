package types

// CheckResult records the classification of one dependency. Exactly one
// CheckResult is produced per dependency per run, and it is never mutated
// after creation.
type CheckResult struct {
	Artifact    Artifact
	LicenseCode string // empty when no license could be determined
	Outcome     Outcome
}

// HasUnknownLicense reports whether no license could be determined.
func (r CheckResult) HasUnknownLicense() bool {
	return r.Outcome == LicenseNoInfo
}

// Report is the aggregated result of a full compliance run. Results are
// ordered by outcome rank before the report is handed to any renderer.
type Report struct {
	Results    []CheckResult
	BuildFails bool
}

// CountByOutcome returns how many results carry the given outcome.
func (r *Report) CountByOutcome(o Outcome) int {
	count := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			count++
		}
	}
	return count
}
