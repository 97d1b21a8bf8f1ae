// Package tui renders compliance reports for terminals and machine consumers.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/toby1984/license-check/internal/types"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleValid   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleInvalid = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ColorEnabled reports whether stdout is a terminal that should receive
// styled output.
func ColorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ReportRenderer writes a completed run's report in either human or JSON
// form. The result ordering is whatever the runner produced; the renderer
// never re-sorts.
type ReportRenderer struct {
	w     io.Writer
	color bool
}

// NewReportRenderer creates a renderer writing to w. When color is false
// every style collapses to plain text.
func NewReportRenderer(w io.Writer, color bool) *ReportRenderer {
	return &ReportRenderer{w: w, color: color}
}

// Render writes the human-readable report: banner, one aligned line per
// result, then the overall verdict.
func (r *ReportRenderer) Render(report types.Report) {
	fmt.Fprintln(r.w, r.styled(styleTitle, "--[ Licenses found ]------"))
	for _, result := range report.Results {
		fmt.Fprintln(r.w, r.renderLine(result))
	}

	fmt.Fprintln(r.w)
	if report.BuildFails {
		fmt.Fprintln(r.w, r.styled(styleInvalid,
			"RESULT: at least one license could not be verified, appears on your blacklist or is not on your whitelist. Build fails."))
	} else {
		fmt.Fprintln(r.w, r.styled(styleValid, "RESULT: license check complete, no issues found."))
	}
}

// renderLine formats one result with fixed-width alignment of the outcome
// label and license code for human scanning.
func (r *ReportRenderer) renderLine(result types.CheckResult) string {
	code := annotateCode(result)
	line := fmt.Sprintf("LICENSE: %-25s [ %10s ] %s", result.Outcome.Label(), code, result.Artifact.String())

	switch result.Outcome {
	case types.LicenseValid:
		return r.styled(styleValid, line)
	case types.ArtifactExcluded:
		return r.styled(styleDim, line)
	case types.LicenseNoInfo:
		return r.styled(styleWarn, line)
	default:
		return r.styled(styleInvalid, line)
	}
}

// annotateCode appends the display-only policy markers. The underlying
// CheckResult keeps the clean code; annotation happens only here.
func annotateCode(result types.CheckResult) string {
	code := result.LicenseCode
	if code == "" {
		code = "n/a"
	}
	switch result.Outcome {
	case types.LicenseBlacklisted:
		return code + " IS ON YOUR BLACKLIST"
	case types.LicenseNotWhitelisted:
		return code + " IS NOT ON YOUR WHITELIST"
	default:
		return code
	}
}

func (r *ReportRenderer) styled(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// jsonReport is the machine-readable report shape.
type jsonReport struct {
	SchemaVersion string       `json:"schema_version"`
	Timestamp     string       `json:"timestamp"`
	Summary       jsonSummary  `json:"summary"`
	Results       []jsonResult `json:"results"`
}

type jsonSummary struct {
	Total          int    `json:"total"`
	Valid          int    `json:"valid"`
	Excluded       int    `json:"excluded"`
	Blacklisted    int    `json:"blacklisted"`
	NotWhitelisted int    `json:"not_whitelisted"`
	NoInfo         int    `json:"no_license_info"`
	Result         string `json:"result"` // PASS or FAIL
}

type jsonResult struct {
	Coordinates string `json:"coordinates"`
	Scope       string `json:"scope,omitempty"`
	LicenseCode string `json:"license_code,omitempty"`
	Outcome     string `json:"outcome"`
}

// RenderJSON writes the report as pretty-printed JSON.
func (r *ReportRenderer) RenderJSON(report types.Report) error {
	out := jsonReport{
		SchemaVersion: "1.0",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Summary: jsonSummary{
			Total:          len(report.Results),
			Valid:          report.CountByOutcome(types.LicenseValid),
			Excluded:       report.CountByOutcome(types.ArtifactExcluded),
			Blacklisted:    report.CountByOutcome(types.LicenseBlacklisted),
			NotWhitelisted: report.CountByOutcome(types.LicenseNotWhitelisted),
			NoInfo:         report.CountByOutcome(types.LicenseNoInfo),
			Result:         passOrFail(report.BuildFails),
		},
		Results: make([]jsonResult, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		out.Results = append(out.Results, jsonResult{
			Coordinates: result.Artifact.Coordinates(),
			Scope:       result.Artifact.Scope,
			LicenseCode: result.LicenseCode,
			Outcome:     result.Outcome.Label(),
		})
	}

	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func passOrFail(fails bool) string {
	if fails {
		return "FAIL"
	}
	return "PASS"
}
