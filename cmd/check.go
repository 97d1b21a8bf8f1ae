package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/core"
	"github.com/toby1984/license-check/internal/logging"
	"github.com/toby1984/license-check/internal/maven"
	"github.com/toby1984/license-check/internal/tui"
	"github.com/toby1984/license-check/internal/types"
)

var (
	pomFile          string
	jsonOutput       bool
	parallelFlag     int
	maxDepthFlag     int
	noLicenseOKFlag  bool
	blacklistFlag    []string
	whitelistFlag    []string
	excludeFlag      []string
	excludeRegexFlag []string
	excludeScopeFlag []string
	repositoryFlag   []string
	localRepoFlag    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every project dependency against the license policy",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&pomFile, "pom", "pom.xml", "project pom to read dependencies from")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	checkCmd.Flags().IntVar(&parallelFlag, "parallel", 0, "worker count for the check loop (default from config, 1 = sequential)")
	checkCmd.Flags().IntVar(&maxDepthFlag, "max-search-depth", 0, "parent-chain recursion bound, 0 = never consult a parent (default from config)")
	checkCmd.Flags().BoolVar(&noLicenseOKFlag, "exclude-no-license", false, "do not fail the build on undetermined licenses")
	checkCmd.Flags().StringSliceVar(&blacklistFlag, "blacklist", nil, "license codes that always fail the build")
	checkCmd.Flags().StringSliceVar(&whitelistFlag, "whitelist", nil, "when set, the only license codes that pass")
	checkCmd.Flags().StringSliceVar(&excludeFlag, "exclude", nil, "coordinates to exclude from the check")
	checkCmd.Flags().StringSliceVar(&excludeRegexFlag, "exclude-regex", nil, "coordinate patterns to exclude (full match)")
	checkCmd.Flags().StringSliceVar(&excludeScopeFlag, "excluded-scope", nil, "dependency scopes to exclude (e.g. test)")
	checkCmd.Flags().StringSliceVar(&repositoryFlag, "repository", nil, "remote repository base URLs")
	checkCmd.Flags().StringVar(&localRepoFlag, "local-repository", "", "local repository root (default ~/.m2/repository)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log, err := logging.New(debugMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	report, _, err := executeRun(cmd, cfg, log)
	if err != nil {
		return err
	}

	renderer := tui.NewReportRenderer(os.Stdout, !jsonOutput && tui.ColorEnabled())
	if jsonOutput {
		if err := renderer.RenderJSON(report); err != nil {
			return err
		}
	} else {
		renderer.Render(report)
	}

	if report.BuildFails {
		return core.ErrComplianceFailed
	}
	return nil
}

// loadMergedConfig reads the config file and applies flag overrides.
// List flags append to the file's lists; scalar flags win only when set
// on the command line.
func loadMergedConfig(cmd *cobra.Command) (types.Config, error) {
	cfg, err := core.LoadConfig(cfgFile)
	if err != nil {
		return types.Config{}, err
	}

	cfg.Blacklist = append(cfg.Blacklist, blacklistFlag...)
	cfg.Whitelist = append(cfg.Whitelist, whitelistFlag...)
	cfg.Excludes = append(cfg.Excludes, excludeFlag...)
	cfg.ExcludesRegex = append(cfg.ExcludesRegex, excludeRegexFlag...)
	cfg.ExcludedScopes = append(cfg.ExcludedScopes, excludeScopeFlag...)
	if cmd.Flags().Changed("repository") {
		cfg.Repositories = repositoryFlag
	}
	if cmd.Flags().Changed("max-search-depth") {
		cfg.MaxSearchDepth = &maxDepthFlag
	}
	if cmd.Flags().Changed("exclude-no-license") {
		cfg.ExcludeNoLicense = noLicenseOKFlag
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallelism = parallelFlag
	}
	if localRepoFlag != "" {
		cfg.LocalRepository = localRepoFlag
	}
	return cfg, nil
}

// executeRun performs a full compliance run and returns the report along
// with the license table used (the sbom command needs the table for SPDX
// identifier lookups).
func executeRun(cmd *cobra.Command, cfg types.Config, log *zap.SugaredLogger) (types.Report, *core.LicenseTable, error) {
	data, err := os.ReadFile(pomFile)
	if err != nil {
		return types.Report{}, nil, fmt.Errorf("read project pom %s: %w", pomFile, err)
	}

	deps, skipped := core.ExtractDependencies(string(data))
	if skipped > 0 {
		log.Warnf("skipped %d dependency declaration(s) with missing or property-managed coordinates", skipped)
	}

	localRoot := cfg.LocalRepository
	if localRoot == "" {
		localRoot = maven.DefaultLocalRepository()
	}

	table := core.NewLicenseTable()
	evaluator := core.NewPolicyEvaluator(core.CompilePolicy(cfg, log))
	repo := maven.NewRepository(localRoot, cfg.Repositories, nil, log)
	runner := core.NewComplianceRunner(table, core.NewOSFileSystem(), repo, evaluator, log, cfg.Parallelism)

	report, err := runner.Run(cmd.Context(), deps)
	if err != nil {
		return types.Report{}, nil, err
	}
	return report, table, nil
}
