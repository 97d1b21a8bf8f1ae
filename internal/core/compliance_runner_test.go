package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/types"
)

func newTestRunner(fs *MockFileSystem, resolver *MockArtifactResolver, cfg types.Config, workers int) *ComplianceRunner {
	log := zap.NewNop().Sugar()
	evaluator := NewPolicyEvaluator(CompilePolicy(cfg, log))
	return NewComplianceRunner(NewLicenseTable(), fs, resolver, evaluator, log, workers)
}

func resultFor(t *testing.T, report types.Report, coords string) types.CheckResult {
	t.Helper()
	for _, result := range report.Results {
		if result.Artifact.Coordinates() == coords {
			return result
		}
	}
	t.Fatalf("no result for %s in report", coords)
	return types.CheckResult{}
}

func TestRun_ValidLicensePasses(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := addPom(fs, resolver, "org.example", "lib", "1.0", pomWithLicense("Apache License, Version 2.0"))

	report, err := newTestRunner(fs, resolver, types.Config{}, 1).Run(context.Background(), []types.Artifact{dep})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.BuildFails {
		t.Error("a valid license with no policy lists must not fail the build")
	}
	result := resultFor(t, report, "org.example:lib:1.0")
	if result.Outcome != types.LicenseValid {
		t.Errorf("Outcome = %v, want LicenseValid", result.Outcome)
	}
	if result.LicenseCode != "apache2.0" {
		t.Errorf("LicenseCode = %q, want apache2.0", result.LicenseCode)
	}
}

func TestRun_BlacklistedLicenseFailsBuild(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := addPom(fs, resolver, "org.example", "lib", "1.0", pomWithLicense("Apache License, Version 2.0"))

	cfg := types.Config{Blacklist: []string{"apache2.0"}}
	report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), []types.Artifact{dep})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.BuildFails {
		t.Error("a blacklisted license must fail the build")
	}
	if got := resultFor(t, report, "org.example:lib:1.0").Outcome; got != types.LicenseBlacklisted {
		t.Errorf("Outcome = %v, want LicenseBlacklisted", got)
	}
}

func TestRun_WhitelistRejectsOtherCodes(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	passing := addPom(fs, resolver, "org.example", "mit-lib", "1.0", pomWithLicense("MIT License"))
	failing := addPom(fs, resolver, "org.example", "apache-lib", "2.0", pomWithLicense("Apache License, Version 2.0"))

	cfg := types.Config{Whitelist: []string{"mit"}}
	report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), []types.Artifact{passing, failing})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.BuildFails {
		t.Error("a code off the whitelist must fail the build")
	}
	if got := resultFor(t, report, "org.example:mit-lib:1.0").Outcome; got != types.LicenseValid {
		t.Errorf("whitelisted code: Outcome = %v, want LicenseValid", got)
	}
	if got := resultFor(t, report, "org.example:apache-lib:2.0").Outcome; got != types.LicenseNotWhitelisted {
		t.Errorf("off-whitelist code: Outcome = %v, want LicenseNotWhitelisted", got)
	}
}

func TestRun_ExcludedArtifactNeverResolved(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := types.Artifact{GroupID: "org.example", ArtifactID: "lib", Version: "1.0"}

	cfg := types.Config{Excludes: []string{"org.example:lib:1.0"}}
	report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), []types.Artifact{dep})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.BuildFails {
		t.Error("an excluded artifact must not fail the build")
	}
	if got := resultFor(t, report, "org.example:lib:1.0").Outcome; got != types.ArtifactExcluded {
		t.Errorf("Outcome = %v, want ArtifactExcluded", got)
	}
	if len(resolver.ResolveCalls) != 0 {
		t.Errorf("excluded artifact was resolved: %v", resolver.ResolveCalls)
	}
	if len(fs.ReadFileCalls) != 0 {
		t.Errorf("excluded artifact's metadata was read: %v", fs.ReadFileCalls)
	}
}

func TestRun_NoLicenseInfo(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := addPom(fs, resolver, "org.example", "bare", "1.0", "<project></project>")

	t.Run("fails build by default", func(t *testing.T) {
		report, err := newTestRunner(fs, resolver, types.Config{}, 1).Run(context.Background(), []types.Artifact{dep})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !report.BuildFails {
			t.Error("an undetermined license must fail the build by default")
		}
		if got := resultFor(t, report, "org.example:bare:1.0").Outcome; got != types.LicenseNoInfo {
			t.Errorf("Outcome = %v, want LicenseNoInfo", got)
		}
	})

	t.Run("suppressed but still reported", func(t *testing.T) {
		cfg := types.Config{ExcludeNoLicense: true}
		report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), []types.Artifact{dep})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.BuildFails {
			t.Error("exclude_no_license must suppress the build failure")
		}
		// Suppression changes the verdict, never the reported outcome.
		if got := resultFor(t, report, "org.example:bare:1.0").Outcome; got != types.LicenseNoInfo {
			t.Errorf("Outcome = %v, want LicenseNoInfo", got)
		}
	})
}

func TestRun_ResultsSortedByOutcome(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	noInfo := addPom(fs, resolver, "org.example", "bare", "1.0", "<project></project>")
	valid := addPom(fs, resolver, "org.example", "good", "1.0", pomWithLicense("MIT License"))
	blacklisted := addPom(fs, resolver, "org.example", "bad", "1.0", pomWithLicense("GNU General Public License v3.0"))
	excluded := types.Artifact{GroupID: "org.example", ArtifactID: "skip", Version: "1.0"}

	cfg := types.Config{
		Blacklist: []string{"gpl-3.0"},
		Excludes:  []string{"org.example:skip:1.0"},
	}
	deps := []types.Artifact{noInfo, blacklisted, excluded, valid}
	report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Results) != len(deps) {
		t.Fatalf("got %d results for %d dependencies", len(report.Results), len(deps))
	}

	wantOrder := []string{
		"org.example:good:1.0",
		"org.example:skip:1.0",
		"org.example:bad:1.0",
		"org.example:bare:1.0",
	}
	for i, coords := range wantOrder {
		if got := report.Results[i].Artifact.Coordinates(); got != coords {
			t.Errorf("Results[%d] = %s, want %s", i, got, coords)
		}
	}
}

func TestRun_UnresolvableDependencyIsFatal(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := types.Artifact{GroupID: "org.example", ArtifactID: "missing", Version: "1.0"}

	_, err := newTestRunner(fs, resolver, types.Config{}, 1).Run(context.Background(), []types.Artifact{dep})
	if !errors.Is(err, ErrArtifactUnresolvable) {
		t.Fatalf("Run() error = %v, want ErrArtifactUnresolvable", err)
	}
}

func TestRun_UnreadableDependencyPomIsFatal(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	dep := addPom(fs, resolver, "org.example", "lib", "1.0", pomWithLicense("MIT License"))
	delete(fs.Files, dep.File)

	_, err := newTestRunner(fs, resolver, types.Config{}, 1).Run(context.Background(), []types.Artifact{dep})
	if !errors.Is(err, ErrMetadataUnreadable) {
		t.Fatalf("Run() error = %v, want ErrMetadataUnreadable", err)
	}
}

func TestRun_ParentChainThroughRunner(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	addPom(fs, resolver, "org.example", "parent", "7", pomWithLicense("Eclipse Public License - v 2.0"))
	child := addPom(fs, resolver, "org.example", "child", "1.0", pomWithParent("org.example", "parent", "7"))

	report, err := newTestRunner(fs, resolver, types.Config{}, 1).Run(context.Background(), []types.Artifact{child})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	result := resultFor(t, report, "org.example:child:1.0")
	if result.LicenseCode != "epl-2.0" {
		t.Errorf("LicenseCode = %q, want epl-2.0 (inherited from parent)", result.LicenseCode)
	}
	if result.Outcome != types.LicenseValid {
		t.Errorf("Outcome = %v, want LicenseValid", result.Outcome)
	}
}

func TestRun_ZeroSearchDepthNeverConsultsParent(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	addPom(fs, resolver, "org.example", "parent", "7", pomWithLicense("MIT License"))
	child := addPom(fs, resolver, "org.example", "child", "1.0", pomWithParent("org.example", "parent", "7"))

	depth := 0
	cfg := types.Config{MaxSearchDepth: &depth}
	report, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), []types.Artifact{child})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	result := resultFor(t, report, "org.example:child:1.0")
	if result.Outcome != types.LicenseNoInfo {
		t.Errorf("Outcome = %v, want LicenseNoInfo: a bound of 0 must not inherit from the parent", result.Outcome)
	}
	if result.LicenseCode != "" {
		t.Errorf("LicenseCode = %q, want empty", result.LicenseCode)
	}
	for _, coords := range resolver.ResolveCalls {
		if coords == "org.example:parent:7" {
			t.Error("parent was resolved despite a bound of 0")
		}
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	deps := []types.Artifact{
		addPom(fs, resolver, "org.example", "a", "1.0", pomWithLicense("MIT License")),
		addPom(fs, resolver, "org.example", "b", "1.0", pomWithLicense("Apache License, Version 2.0")),
		addPom(fs, resolver, "org.example", "c", "1.0", "<project></project>"),
		addPom(fs, resolver, "org.example", "d", "1.0", pomWithLicense("GNU General Public License v3.0")),
	}
	cfg := types.Config{Blacklist: []string{"gpl-3.0"}, ExcludeNoLicense: true}

	sequential, err := newTestRunner(fs, resolver, cfg, 1).Run(context.Background(), deps)
	if err != nil {
		t.Fatalf("sequential Run() error = %v", err)
	}
	parallel, err := newTestRunner(fs, resolver, cfg, 4).Run(context.Background(), deps)
	if err != nil {
		t.Fatalf("parallel Run() error = %v", err)
	}

	if sequential.BuildFails != parallel.BuildFails {
		t.Errorf("BuildFails differs: sequential %v, parallel %v", sequential.BuildFails, parallel.BuildFails)
	}
	if len(sequential.Results) != len(parallel.Results) {
		t.Fatalf("result counts differ: %d vs %d", len(sequential.Results), len(parallel.Results))
	}
	for i := range sequential.Results {
		if sequential.Results[i] != parallel.Results[i] {
			t.Errorf("Results[%d] differs: %+v vs %+v", i, sequential.Results[i], parallel.Results[i])
		}
	}
}

func TestRun_OneResultPerDependency(t *testing.T) {
	fs := NewMockFileSystem()
	resolver := NewMockArtifactResolver()
	deps := []types.Artifact{
		addPom(fs, resolver, "org.example", "a", "1.0", pomWithLicense("MIT License")),
		addPom(fs, resolver, "org.example", "b", "1.0", "<project></project>"),
		{GroupID: "org.example", ArtifactID: "c", Version: "1.0", Scope: "test"},
	}
	cfg := types.Config{ExcludedScopes: []string{"test"}}

	report, err := newTestRunner(fs, resolver, cfg, 2).Run(context.Background(), deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Results) != len(deps) {
		t.Fatalf("got %d results for %d dependencies", len(report.Results), len(deps))
	}
	seen := make(map[string]int)
	for _, result := range report.Results {
		seen[result.Artifact.Coordinates()]++
	}
	for _, dep := range deps {
		if seen[dep.Coordinates()] != 1 {
			t.Errorf("dependency %s has %d results, want 1", dep.Coordinates(), seen[dep.Coordinates()])
		}
	}
}
