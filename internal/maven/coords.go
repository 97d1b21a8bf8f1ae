// Package maven provides coordinate handling and artifact resolution
// against Maven-layout repositories, local and remote.
package maven

import (
	"fmt"
	"path"
	"strings"

	"github.com/toby1984/license-check/internal/types"
)

// ParseCoordinates parses a groupId:artifactId:version string.
func ParseCoordinates(coords string) (types.Artifact, error) {
	parts := strings.Split(coords, ":")
	if len(parts) != 3 {
		return types.Artifact{}, fmt.Errorf("invalid coordinates %q: want groupId:artifactId:version", coords)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return types.Artifact{}, fmt.Errorf("invalid coordinates %q: empty component", coords)
		}
	}
	return types.Artifact{
		GroupID:    parts[0],
		ArtifactID: parts[1],
		Version:    parts[2],
	}, nil
}

// RelativeDir returns the artifact's directory below a repository root in
// standard Maven layout: group dots become slashes, then artifactId and
// version segments.
func RelativeDir(a types.Artifact) string {
	return path.Join(strings.ReplaceAll(a.GroupID, ".", "/"), a.ArtifactID, a.Version)
}

// PomName returns the conventional pom file name for the artifact.
func PomName(a types.Artifact) string {
	return a.ArtifactID + "-" + a.Version + ".pom"
}
