package core

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/toby1984/license-check/internal/types"
)

// ArtifactResolver locates an artifact by its groupId:artifactId:version
// coordinates and returns it with its on-disk file set. Implemented by
// maven.Repository; abstracted here so the parent walk can be tested
// without a repository.
type ArtifactResolver interface {
	Resolve(coordinates string) (types.Artifact, error)
}

// ParentChainResolver determines an artifact's declared license name by
// reading its pom and, when the pom declares no license, walking up the
// parent chain through an ArtifactResolver. Recursion is bounded by
// maxDepth to survive malformed or circular parent declarations.
type ParentChainResolver struct {
	fs       FileSystem
	repo     ArtifactResolver
	maxDepth int
	log      *zap.SugaredLogger
}

// NewParentChainResolver creates a resolver with the given recursion bound.
func NewParentChainResolver(fs FileSystem, repo ArtifactResolver, maxDepth int, log *zap.SugaredLogger) *ParentChainResolver {
	return &ParentChainResolver{
		fs:       fs,
		repo:     repo,
		maxDepth: maxDepth,
		log:      log,
	}
}

// ResolveLicenseName returns the free-text license name declared by the
// artifact or the nearest ancestor within the recursion bound, or "" when
// none can be determined. The error is non-nil only when the top-level
// artifact's own pom cannot be read (wrapping ErrMetadataUnreadable);
// every failure further up the chain degrades to "no license found".
func (r *ParentChainResolver) ResolveLicenseName(artifact types.Artifact) (string, error) {
	return r.resolve(artifact, 0)
}

func (r *ParentChainResolver) resolve(artifact types.Artifact, depth int) (string, error) {
	path := pomPath(artifact)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if depth == 0 {
			return "", fmt.Errorf("%w: %s: %v", ErrMetadataUnreadable, path, err)
		}
		r.log.Warnw("parent pom unreadable, treating as no license",
			"artifact", artifact.Coordinates(), "path", path, "error", err)
		return "", nil
	}
	pom := string(data)

	if name, ok := extractLicenseName(pom); ok {
		return name, nil
	}

	parentCoords, ok := extractParentCoords(pom)
	if !ok {
		return "", nil
	}
	if depth >= r.maxDepth {
		// Indistinguishable from a genuinely undeclared license in the
		// report; the log is the only place the two causes differ.
		r.log.Warnw("parent search depth exhausted",
			"artifact", artifact.Coordinates(), "max_depth", r.maxDepth)
		return "", nil
	}

	parent, err := r.repo.Resolve(parentCoords)
	if err != nil {
		r.log.Warnw("could not resolve parent artifact",
			"parent", parentCoords, "error", err)
		return "", nil
	}
	return r.resolve(parent, depth+1)
}

// pomPath locates the conventional <artifactId>-<version>.pom next to the
// artifact's resolved file.
func pomPath(artifact types.Artifact) string {
	return filepath.Join(filepath.Dir(artifact.File), artifact.ArtifactID+"-"+artifact.Version+".pom")
}
