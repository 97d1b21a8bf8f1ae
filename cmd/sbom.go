package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toby1984/license-check/internal/logging"
	"github.com/toby1984/license-check/internal/sbom"
)

var (
	sbomFormat string
	sbomOutput string
)

var sbomCmd = &cobra.Command{
	Use:   "sbom",
	Short: "Export the dependency license check as an SBOM",
	Long: `sbom runs the same resolution as check and writes the results as a
Software Bill of Materials. Policy outcomes are recorded per component but a
failing policy does not fail the export.`,
	RunE: runSBOM,
}

func init() {
	rootCmd.AddCommand(sbomCmd)
	sbomCmd.Flags().StringVar(&pomFile, "pom", "pom.xml", "project pom to read dependencies from")
	sbomCmd.Flags().StringVar(&sbomFormat, "format", string(sbom.FormatCycloneDX), "output format: cyclonedx or spdx")
	sbomCmd.Flags().StringVar(&sbomOutput, "output", "", "output file (default stdout)")
}

func runSBOM(cmd *cobra.Command, args []string) error {
	log, err := logging.New(debugMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	report, table, err := executeRun(cmd, cfg, log)
	if err != nil {
		return err
	}

	// Name the root component after the project directory.
	abs, err := filepath.Abs(pomFile)
	if err != nil {
		abs = pomFile
	}
	projectName := filepath.Base(filepath.Dir(abs))
	generator := sbom.NewGenerator(projectName, table.SpdxFor)
	data, err := generator.Generate(report, sbom.Format(sbomFormat))
	if err != nil {
		return err
	}

	if sbomOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(sbomOutput, data, 0644); err != nil {
		return fmt.Errorf("write SBOM %s: %w", sbomOutput, err)
	}
	fmt.Printf("SBOM written to %s\n", sbomOutput)
	return nil
}
