package core

import (
	"fmt"
	"os"

	"github.com/toby1984/license-check/internal/types"
)

// ============================================================================
// MockFileSystem
// ============================================================================

// MockFileSystem implements FileSystem backed by an in-memory path map.
type MockFileSystem struct {
	Files map[string]string

	ReadFileCalls []string
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{Files: make(map[string]string)}
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.ReadFileCalls = append(m.ReadFileCalls, path)
	content, ok := m.Files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return []byte(content), nil
}

func (m *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.Files[path]; !ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return nil, nil
}

// ============================================================================
// MockArtifactResolver
// ============================================================================

// MockArtifactResolver implements ArtifactResolver from a coordinates map.
type MockArtifactResolver struct {
	Artifacts map[string]types.Artifact
	Err       map[string]error

	ResolveCalls []string
}

func NewMockArtifactResolver() *MockArtifactResolver {
	return &MockArtifactResolver{
		Artifacts: make(map[string]types.Artifact),
		Err:       make(map[string]error),
	}
}

func (m *MockArtifactResolver) Resolve(coordinates string) (types.Artifact, error) {
	m.ResolveCalls = append(m.ResolveCalls, coordinates)
	if err, ok := m.Err[coordinates]; ok {
		return types.Artifact{}, err
	}
	artifact, ok := m.Artifacts[coordinates]
	if !ok {
		return types.Artifact{}, fmt.Errorf("artifact %s not found", coordinates)
	}
	return artifact, nil
}

// addPom registers an artifact in both the resolver and the file system:
// the artifact resolves to /repo/<g>/<a>/<v>/<a>-<v>.pom and the pom file
// holds the given content.
func addPom(fs *MockFileSystem, resolver *MockArtifactResolver, group, artifact, version, pom string) types.Artifact {
	dir := "/repo/" + group + "/" + artifact + "/" + version
	path := dir + "/" + artifact + "-" + version + ".pom"
	fs.Files[path] = pom
	a := types.Artifact{GroupID: group, ArtifactID: artifact, Version: version, File: path}
	resolver.Artifacts[a.Coordinates()] = a
	return a
}

// pomWithLicense builds a minimal pom declaring one license.
func pomWithLicense(name string) string {
	return "<project><licenses><license><name>" + name + "</name></license></licenses></project>"
}

// pomWithParent builds a minimal pom declaring no license and one parent.
func pomWithParent(group, artifact, version string) string {
	return "<project><parent><groupId>" + group + "</groupId><artifactId>" + artifact +
		"</artifactId><version>" + version + "</version></parent></project>"
}
