// Package sbom renders a completed compliance run as a Software Bill of
// Materials, carrying the resolved license evidence per component.
package sbom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"github.com/spdx/tools-golang/spdx"
	"github.com/spdx/tools-golang/spdx/v2/common"
	spdx23 "github.com/spdx/tools-golang/spdx/v2/v2_3"

	"github.com/toby1984/license-check/internal/types"
	"github.com/toby1984/license-check/internal/version"
)

// Format selects an SBOM output format.
type Format string

const (
	// FormatCycloneDX is the CycloneDX 1.5 JSON format
	FormatCycloneDX Format = "cyclonedx"
	// FormatSPDX is the SPDX 2.3 JSON format
	FormatSPDX Format = "spdx"
)

// SpdxLookup maps a normalized license code onto an SPDX identifier.
// Satisfied by core.LicenseTable.SpdxFor.
type SpdxLookup func(code string) string

// Generator builds SBOMs from check results.
type Generator struct {
	projectName string
	spdxFor     SpdxLookup
}

// NewGenerator creates a Generator for the named project.
func NewGenerator(projectName string, spdxFor SpdxLookup) *Generator {
	return &Generator{projectName: projectName, spdxFor: spdxFor}
}

// Generate renders the report in the requested format.
func (g *Generator) Generate(report types.Report, format Format) ([]byte, error) {
	switch format {
	case FormatCycloneDX:
		return g.generateCycloneDX(report)
	case FormatSPDX:
		return g.generateSPDX(report)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// generateCycloneDX creates a CycloneDX 1.5 JSON SBOM.
func (g *Generator) generateCycloneDX(report types.Report) ([]byte, error) {
	bom := cdx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	bom.Version = 1

	bom.Metadata = &cdx.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Tools: &[]cdx.Tool{
				{
					Vendor:  "license-check",
					Name:    "license-check",
					Version: version.GetVersion(),
				},
			},
		},
		Component: &cdx.Component{
			Type:    cdx.ComponentTypeApplication,
			Name:    g.projectName,
			Version: "local",
		},
	}

	components := make([]cdx.Component, 0, len(report.Results))
	for _, result := range report.Results {
		components = append(components, g.buildCycloneDXComponent(result))
	}
	bom.Components = &components

	var buf strings.Builder
	encoder := cdx.NewBOMEncoder(&buf, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		return nil, fmt.Errorf("encode CycloneDX: %w", err)
	}
	return []byte(buf.String()), nil
}

// buildCycloneDXComponent creates a CycloneDX component from one result.
func (g *Generator) buildCycloneDXComponent(result types.CheckResult) cdx.Component {
	artifact := result.Artifact
	component := cdx.Component{
		Type:       cdx.ComponentTypeLibrary,
		BOMRef:     artifact.Coordinates(),
		Group:      artifact.GroupID,
		Name:       artifact.ArtifactID,
		Version:    artifact.Version,
		PackageURL: mavenPURL(artifact),
	}

	if result.LicenseCode != "" {
		if id := g.spdxFor(result.LicenseCode); id != "" && !strings.HasPrefix(id, "LicenseRef-") {
			component.Licenses = &cdx.Licenses{
				{License: &cdx.License{ID: id}},
			}
		} else {
			component.Licenses = &cdx.Licenses{
				{License: &cdx.License{Name: result.LicenseCode}},
			}
		}
	}

	properties := []cdx.Property{
		{Name: "license-check:outcome", Value: result.Outcome.Label()},
	}
	if artifact.Scope != "" {
		properties = append(properties, cdx.Property{Name: "license-check:scope", Value: artifact.Scope})
	}
	component.Properties = &properties

	return component
}

// generateSPDX creates an SPDX 2.3 JSON SBOM.
func (g *Generator) generateSPDX(report types.Report) ([]byte, error) {
	doc := &spdx23.Document{
		SPDXVersion:       spdx.Version,
		DataLicense:       spdx.DataLicense,
		SPDXIdentifier:    common.ElementID("DOCUMENT"),
		DocumentName:      g.projectName + "-dependency-licenses",
		DocumentNamespace: fmt.Sprintf("https://license-check.dev/spdx/%s/%s", g.projectName, uuid.New().String()),
		CreationInfo: &spdx23.CreationInfo{
			Created: time.Now().UTC().Format(time.RFC3339),
			Creators: []common.Creator{
				{CreatorType: "Tool", Creator: "license-check-" + version.GetVersion()},
			},
		},
	}

	packages := make([]*spdx23.Package, 0, len(report.Results))
	relationships := make([]*spdx23.Relationship, 0, len(report.Results))
	for _, result := range report.Results {
		pkg := g.buildSPDXPackage(result)
		packages = append(packages, pkg)

		// RefB must match the package's SPDXID exactly
		relationships = append(relationships, &spdx23.Relationship{
			RefA:         common.MakeDocElementID("", "DOCUMENT"),
			RefB:         common.MakeDocElementID("", string(pkg.PackageSPDXIdentifier)),
			Relationship: "DESCRIBES",
		})
	}
	doc.Packages = packages
	doc.Relationships = relationships

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode SPDX: %w", err)
	}
	return buf.Bytes(), nil
}

// buildSPDXPackage creates an SPDX package from one result.
func (g *Generator) buildSPDXPackage(result types.CheckResult) *spdx23.Package {
	artifact := result.Artifact

	license := "NOASSERTION"
	if result.LicenseCode != "" {
		if id := g.spdxFor(result.LicenseCode); id != "" {
			license = id
		} else {
			license = result.LicenseCode
		}
	}

	pkg := &spdx23.Package{
		PackageName:             artifact.GroupID + ":" + artifact.ArtifactID,
		PackageSPDXIdentifier:   common.ElementID("Package-" + sanitizeSPDXID(artifact.Coordinates())),
		PackageVersion:          artifact.Version,
		PackageDownloadLocation: "NOASSERTION",
		FilesAnalyzed:           false,
		PackageCopyrightText:    "NOASSERTION",
		PackageLicenseDeclared:  license,
		PackageLicenseConcluded: license,
		PackageComment:          "outcome=" + result.Outcome.Label(),
	}

	pkg.PackageExternalReferences = []*spdx23.PackageExternalReference{
		{
			Category: common.CategoryPackageManager,
			RefType:  "purl",
			Locator:  mavenPURL(artifact),
		},
	}

	return pkg
}

// mavenPURL builds a pkg:maven Package URL for the artifact.
func mavenPURL(artifact types.Artifact) string {
	return fmt.Sprintf("pkg:maven/%s/%s@%s", artifact.GroupID, artifact.ArtifactID, artifact.Version)
}

// sanitizeSPDXID strips characters SPDX identifiers do not allow.
func sanitizeSPDXID(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
