package core

import "errors"

// Sentinel errors for the distinct failure kinds a run can surface.
// These can be used with errors.Is() so callers can tell an infrastructure
// problem from a compliance problem.
var (
	// ErrComplianceFailed indicates at least one dependency is blacklisted,
	// not whitelisted, or has no determinable license. This is the expected
	// terminal outcome of a failing run, not an infrastructure error.
	ErrComplianceFailed = errors.New("at least one license could not be verified or violates the blacklist/whitelist policy")

	// ErrArtifactUnresolvable indicates the repository could not locate a
	// top-level dependency. Fatal: the run aborts immediately.
	ErrArtifactUnresolvable = errors.New("artifact could not be resolved from any repository")

	// ErrMetadataUnreadable indicates a top-level dependency's own pom could
	// not be read. Fatal for the run; read failures during a parent walk are
	// absorbed into "no license determinable" instead.
	ErrMetadataUnreadable = errors.New("artifact metadata could not be read")

	// ErrMalformedRuleResource indicates the bundled license rule table has a
	// row with missing columns or an uncompilable pattern. Fatal at load time.
	ErrMalformedRuleResource = errors.New("malformed license rule resource")
)
