package core

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// licensesResource is the bundled tab-delimited rule table. Columns per
// line: code, SPDX identifier (informational), canonical name, pattern.
//
//go:embed licenses.txt
var licensesResource string

// LicenseRule maps free-text license names onto a normalized code.
// Rules are ordered; the first rule whose pattern matches wins, so broad
// patterns must come after precise ones in the resource.
type LicenseRule struct {
	Code          string
	SpdxID        string
	CanonicalName string
	pattern       *regexp.Regexp
}

// LicenseTable holds the ordered license rule list. Construct one per run
// with NewLicenseTable and share it read-only; there is no hidden global.
type LicenseTable struct {
	loadOnce sync.Once
	loadErr  error
	rules    []LicenseRule
}

// NewLicenseTable creates an empty table backed by the bundled resource.
// Loading is lazy: the resource is parsed on first use and cached.
func NewLicenseTable() *LicenseTable {
	return &LicenseTable{}
}

// Load parses the bundled resource into the ordered rule list. Load is
// idempotent; subsequent calls reuse the cached table. A malformed row
// (fewer than four columns, or an uncompilable pattern) is a fatal load
// error wrapping ErrMalformedRuleResource.
func (t *LicenseTable) Load() error {
	t.loadOnce.Do(func() {
		t.rules, t.loadErr = parseRules(licensesResource)
	})
	return t.loadErr
}

// CodeFor returns the code of the first rule whose pattern matches name,
// case-insensitively, anywhere in the string. The second return value is
// false when name is empty or no rule matches.
func (t *LicenseTable) CodeFor(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if err := t.Load(); err != nil {
		return "", false
	}
	for _, rule := range t.rules {
		if rule.pattern.MatchString(name) {
			return rule.Code, true
		}
	}
	return "", false
}

// SpdxFor returns the SPDX identifier recorded for a license code, or ""
// when the code is unknown.
func (t *LicenseTable) SpdxFor(code string) string {
	if err := t.Load(); err != nil {
		return ""
	}
	for _, rule := range t.rules {
		if rule.Code == code {
			return rule.SpdxID
		}
	}
	return ""
}

// Rules returns the loaded rule list in resource order.
func (t *LicenseTable) Rules() []LicenseRule {
	if err := t.Load(); err != nil {
		return nil
	}
	return t.rules
}

// parseRules builds the rule list from the tab-delimited resource text.
func parseRules(resource string) ([]LicenseRule, error) {
	var rules []LicenseRule
	for i, line := range strings.Split(resource, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		columns := strings.Split(line, "\t")
		if len(columns) < 4 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want 4", ErrMalformedRuleResource, i+1, len(columns))
		}
		pattern, err := regexp.Compile("(?i)" + columns[3])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d pattern %q: %v", ErrMalformedRuleResource, i+1, columns[3], err)
		}
		rules = append(rules, LicenseRule{
			Code:          columns[0],
			SpdxID:        columns[1],
			CanonicalName: columns[2],
			pattern:       pattern,
		})
	}
	return rules, nil
}
