// Package cmd wires the license-check commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toby1984/license-check/internal/core"
	"github.com/toby1984/license-check/internal/version"
)

var (
	cfgFile   string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "license-check",
	Short: "Validate that project dependencies carry acceptable open-source licenses",
	Long: `license-check walks the dependencies declared in a project pom, determines
each dependency's license from its own metadata or its parent chain,
normalizes the license name to a short code, and fails the build when a
license is blacklisted, not whitelisted, or cannot be determined.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code: 0 for a clean
// run, 1 for a compliance failure, 2 for infrastructure failures.
func Execute() int {
	return exitCode(rootCmd.Execute())
}

// exitCode maps a command error onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, core.ErrComplianceFailed) {
		// The report already explained the failure.
		return 1
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 2
}

func init() {
	rootCmd.Version = version.GetFullVersion()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", core.ConfigFile, "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}
