package core

import (
	"strings"

	"github.com/toby1984/license-check/internal/types"
)

// The pom scanner is deliberately a textual substring search, not an XML
// parser. Only the first matching block is ever considered: the first
// <license> and the first <parent> win silently, and multiple licenses are
// never merged or reported as ambiguous. Any missing delimiter yields
// "not found" instead of an error.

// textBetween returns the text between the first occurrence of start and
// the next occurrence of stop after it. ok is false when either delimiter
// is missing.
func textBetween(s, start, stop string) (string, bool) {
	begin := strings.Index(s, start)
	if begin == -1 {
		return "", false
	}
	rest := s[begin+len(start):]
	end := strings.Index(rest, stop)
	if end == -1 {
		return "", false
	}
	return rest[:end], true
}

// extractLicenseName returns the <name> of the first <license> block.
func extractLicenseName(pom string) (string, bool) {
	block, ok := textBetween(pom, "<license>", "</license>")
	if !ok {
		return "", false
	}
	name, ok := textBetween(block, "<name>", "</name>")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(name), true
}

// extractParentCoords returns the coordinates of the first <parent> block
// as groupId:artifactId:version.
func extractParentCoords(pom string) (string, bool) {
	block, ok := textBetween(pom, "<parent>", "</parent>")
	if !ok {
		return "", false
	}
	group, okG := textBetween(block, "<groupId>", "</groupId>")
	artifact, okA := textBetween(block, "<artifactId>", "</artifactId>")
	version, okV := textBetween(block, "<version>", "</version>")
	if !okG || !okA || !okV {
		return "", false
	}
	return strings.TrimSpace(group) + ":" + strings.TrimSpace(artifact) + ":" + strings.TrimSpace(version), true
}

// ExtractDependencies enumerates the direct dependencies declared in a
// project pom. Only the first <dependencies> block is scanned, after any
// <dependencyManagement> section has been cut out. Entries missing a
// groupId, artifactId or version (e.g. managed versions) are skipped and
// counted in the second return value.
func ExtractDependencies(pom string) ([]types.Artifact, int) {
	// Cut dependencyManagement so its nested <dependencies> block does not
	// shadow the project's own.
	if begin := strings.Index(pom, "<dependencyManagement>"); begin != -1 {
		if end := strings.Index(pom[begin:], "</dependencyManagement>"); end != -1 {
			pom = pom[:begin] + pom[begin+end+len("</dependencyManagement>"):]
		}
	}

	block, ok := textBetween(pom, "<dependencies>", "</dependencies>")
	if !ok {
		return nil, 0
	}

	var deps []types.Artifact
	skipped := 0
	for {
		begin := strings.Index(block, "<dependency>")
		if begin == -1 {
			break
		}
		rest := block[begin+len("<dependency>"):]
		end := strings.Index(rest, "</dependency>")
		if end == -1 {
			break
		}
		dep := rest[:end]
		group, okG := textBetween(dep, "<groupId>", "</groupId>")
		artifact, okA := textBetween(dep, "<artifactId>", "</artifactId>")
		version, okV := textBetween(dep, "<version>", "</version>")
		scope, _ := textBetween(dep, "<scope>", "</scope>")

		group, artifact, version, scope = strings.TrimSpace(group), strings.TrimSpace(artifact), strings.TrimSpace(version), strings.TrimSpace(scope)
		if !okG || !okA || !okV || strings.Contains(version, "${") {
			skipped++
		} else {
			deps = append(deps, types.Artifact{
				GroupID:    group,
				ArtifactID: artifact,
				Version:    version,
				Scope:      scope,
			})
		}

		// Continue after the close tag that ended this entry, not after
		// the first close tag in the block: a stray </dependency> before
		// the entry must not make it parse twice.
		block = rest[end+len("</dependency>"):]
	}
	return deps, skipped
}
