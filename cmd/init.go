package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toby1984/license-check/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a starter configuration file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists", cfgFile)).
			Description("Overwrite it?").
			Affirmative("Overwrite").
			Negative("Keep").
			Value(&overwrite).
			Run()
		if err != nil || !overwrite {
			return fmt.Errorf("aborted: %s left untouched", cfgFile)
		}
	}

	cfg := core.DefaultConfig()

	var mode string
	if err := huh.NewSelect[string]().
		Title("Policy style").
		Options(
			huh.NewOption("Blacklist — fail only on listed licenses", "blacklist"),
			huh.NewOption("Whitelist — fail on everything not listed", "whitelist"),
			huh.NewOption("None — only report, never fail on license codes", "none"),
		).
		Value(&mode).
		Run(); err != nil {
		return err
	}

	switch mode {
	case "blacklist":
		codes, err := askCodes("Blacklisted license codes", "agpl-3.0, gpl-2.0, gpl-3.0")
		if err != nil {
			return err
		}
		cfg.Blacklist = codes
	case "whitelist":
		codes, err := askCodes("Whitelisted license codes", "mit, apache2.0, bsd-3")
		if err != nil {
			return err
		}
		cfg.Whitelist = codes
	}

	var noLicenseOK bool
	if err := huh.NewConfirm().
		Title("Tolerate undetermined licenses?").
		Description("They are still reported as invalid, but the build will not fail.").
		Value(&noLicenseOK).
		Run(); err != nil {
		return err
	}
	cfg.ExcludeNoLicense = noLicenseOK

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgFile, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", cfgFile, err)
	}
	fmt.Printf("Wrote %s\n", cfgFile)
	return nil
}

// askCodes prompts for a comma-separated list of license codes.
func askCodes(title, placeholder string) ([]string, error) {
	var raw string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Description("Comma-separated normalized codes, see licenses.txt").
		Value(&raw).
		Run()
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}
