package core

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/types"
)

// PolicySet is the compiled, read-only form of the run configuration.
// Coordinate strings, scopes and license codes are case-folded once here
// so every later comparison is a plain set lookup.
type PolicySet struct {
	ExcludeCoordinates map[string]struct{}
	ExcludePatterns    []*regexp.Regexp // full-match against coordinate strings
	ExcludedScopes     map[string]struct{}
	Blacklist          map[string]struct{} // empty = check disabled
	Whitelist          map[string]struct{} // empty = check disabled
	ExcludeNoLicense   bool
	MaxSearchDepth     int
}

// CompilePolicy turns the raw configuration into a PolicySet. Invalid
// exclude patterns are dropped with a warning; they never fail the run.
func CompilePolicy(cfg types.Config, log *zap.SugaredLogger) PolicySet {
	policy := PolicySet{
		ExcludeCoordinates: foldSet(cfg.Excludes),
		ExcludedScopes:     foldSet(cfg.ExcludedScopes),
		Blacklist:          foldSet(cfg.Blacklist),
		Whitelist:          foldSet(cfg.Whitelist),
		ExcludeNoLicense:   cfg.ExcludeNoLicense,
		MaxSearchDepth:     types.DefaultMaxSearchDepth,
	}
	// The bound is non-negative: 0 means "never consult a parent" and is
	// kept as-is; only unset (nil) and negative values fall to the default.
	if cfg.MaxSearchDepth != nil {
		if *cfg.MaxSearchDepth >= 0 {
			policy.MaxSearchDepth = *cfg.MaxSearchDepth
		} else {
			log.Warnw("negative max_search_depth, using default",
				"configured", *cfg.MaxSearchDepth, "default", types.DefaultMaxSearchDepth)
		}
	}
	for _, raw := range cfg.ExcludesRegex {
		// Anchored so the pattern must cover the whole coordinate string.
		pattern, err := regexp.Compile("^(?:" + raw + ")$")
		if err != nil {
			log.Warnw("dropping invalid exclude pattern", "pattern", raw, "error", err)
			continue
		}
		policy.ExcludePatterns = append(policy.ExcludePatterns, pattern)
	}
	return policy
}

// foldSet builds a case-folded membership set from a string list.
func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

// PolicyEvaluator classifies artifacts and resolved license codes against
// a PolicySet. It holds no mutable state and is safe to share.
type PolicyEvaluator struct {
	policy PolicySet
}

// NewPolicyEvaluator creates an evaluator for the given policy.
func NewPolicyEvaluator(policy PolicySet) *PolicyEvaluator {
	return &PolicyEvaluator{policy: policy}
}

// IsExcluded reports whether the artifact matches the exclusion policy:
// its coordinates are on the exclude list, fully match an exclude pattern,
// or its scope is excluded. Excluded artifacts are never resolved.
func (e *PolicyEvaluator) IsExcluded(artifact types.Artifact) bool {
	coords := artifact.Coordinates()
	if _, ok := e.policy.ExcludeCoordinates[strings.ToLower(coords)]; ok {
		return true
	}
	for _, pattern := range e.policy.ExcludePatterns {
		if pattern.MatchString(coords) {
			return true
		}
	}
	if _, ok := e.policy.ExcludedScopes[strings.ToLower(artifact.Scope)]; artifact.Scope != "" && ok {
		return true
	}
	return false
}

// Classify maps a resolved license code (empty = none determinable) onto an
// outcome. Precedence is fixed: no-info first, then blacklist, then
// whitelist, then valid. An empty blacklist or whitelist disables that
// check entirely rather than matching nothing.
func (e *PolicyEvaluator) Classify(code string) types.Outcome {
	if code == "" {
		return types.LicenseNoInfo
	}
	folded := strings.ToLower(code)
	if len(e.policy.Blacklist) > 0 {
		if _, ok := e.policy.Blacklist[folded]; ok {
			return types.LicenseBlacklisted
		}
	}
	if len(e.policy.Whitelist) > 0 {
		if _, ok := e.policy.Whitelist[folded]; !ok {
			return types.LicenseNotWhitelisted
		}
	}
	return types.LicenseValid
}

// Policy returns the compiled policy the evaluator was built with.
func (e *PolicyEvaluator) Policy() PolicySet {
	return e.policy
}
