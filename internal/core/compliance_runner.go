package core

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/types"
)

// ComplianceRunner orchestrates a full run: for each project dependency it
// applies the exclusion policy, resolves a license name through the parent
// chain, normalizes it to a code and classifies it. Every dependency
// yields exactly one CheckResult; only a top-level resolution or metadata
// read failure aborts the run.
type ComplianceRunner struct {
	table     *LicenseTable
	fs        FileSystem
	repo      ArtifactResolver
	evaluator *PolicyEvaluator
	log       *zap.SugaredLogger
	workers   int
}

// NewComplianceRunner creates a runner. workers <= 1 checks dependencies
// sequentially; higher values use a bounded worker pool.
func NewComplianceRunner(table *LicenseTable, fs FileSystem, repo ArtifactResolver, evaluator *PolicyEvaluator, log *zap.SugaredLogger, workers int) *ComplianceRunner {
	if workers < 1 {
		workers = 1
	}
	return &ComplianceRunner{
		table:     table,
		fs:        fs,
		repo:      repo,
		evaluator: evaluator,
		log:       log,
		workers:   workers,
	}
}

// Run checks every dependency and returns the ordered report. The report's
// BuildFails flag is set when any outcome is build-failing, honoring the
// ExcludeNoLicense suppression for undetermined licenses. The returned
// error is non-nil only for fatal infrastructure failures
// (ErrArtifactUnresolvable, ErrMetadataUnreadable, table load errors).
func (r *ComplianceRunner) Run(ctx context.Context, dependencies []types.Artifact) (types.Report, error) {
	// The table must be loaded before any worker starts so its rules are
	// shared read-only across all resolutions.
	if err := r.table.Load(); err != nil {
		return types.Report{}, err
	}

	policy := r.evaluator.Policy()
	resolver := NewParentChainResolver(r.fs, r.repo, policy.MaxSearchDepth, r.log)

	r.log.Infof("validating licenses for %d artifact(s)", len(dependencies))

	results, err := NewParallelExecutor(r.workers).Execute(ctx, dependencies, func(ctx context.Context, artifact types.Artifact) (types.CheckResult, error) {
		return r.checkOne(resolver, artifact)
	})
	if err != nil {
		return types.Report{}, err
	}

	report := types.Report{Results: results}
	for _, result := range report.Results {
		if r.failsBuild(result) {
			report.BuildFails = true
			r.log.Warnw("build will fail",
				"artifact", result.Artifact.Coordinates(),
				"license", result.LicenseCode,
				"outcome", result.Outcome.Label())
		}
	}

	// Deterministic report order: fixed outcome rank, stable within rank,
	// so artifacts with no determinable license group last.
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Outcome.Rank() < report.Results[j].Outcome.Rank()
	})

	return report, nil
}

// checkOne produces the single CheckResult for one dependency.
func (r *ComplianceRunner) checkOne(resolver *ParentChainResolver, artifact types.Artifact) (types.CheckResult, error) {
	if r.evaluator.IsExcluded(artifact) {
		return types.CheckResult{Artifact: artifact, Outcome: types.ArtifactExcluded}, nil
	}

	located := artifact
	if located.File == "" {
		resolved, err := r.repo.Resolve(artifact.Coordinates())
		if err != nil {
			// Top-level dependencies must resolve; parents may not.
			return types.CheckResult{}, fmt.Errorf("%w: %s: %v", ErrArtifactUnresolvable, artifact.Coordinates(), err)
		}
		resolved.Scope = artifact.Scope
		located = resolved
	}

	name, err := resolver.ResolveLicenseName(located)
	if err != nil {
		return types.CheckResult{}, err
	}

	code, _ := r.table.CodeFor(name)
	outcome := r.evaluator.Classify(code)
	return types.CheckResult{Artifact: artifact, LicenseCode: code, Outcome: outcome}, nil
}

// failsBuild applies the ExcludeNoLicense suppression: an undetermined
// license is still reported as invalid, but only fails the build when the
// suppression is off.
func (r *ComplianceRunner) failsBuild(result types.CheckResult) bool {
	if result.Outcome == types.LicenseNoInfo {
		return !r.evaluator.Policy().ExcludeNoLicense
	}
	return result.Outcome.BuildFailing()
}
