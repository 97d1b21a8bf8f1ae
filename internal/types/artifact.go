package types

// Artifact identifies one dependency of the project under check.
// GroupID, ArtifactID and Version together form the artifact's coordinates.
// File is the on-disk location of the artifact once a repository has
// resolved it; it is empty for artifacts that have not been located yet.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
	File       string
}

// Coordinates returns the canonical groupId:artifactId:version identity
// string. Coordinates preserves the original case; callers that need
// case-insensitive comparison fold the result themselves.
func (a Artifact) Coordinates() string {
	return a.GroupID + ":" + a.ArtifactID + ":" + a.Version
}

// String returns the coordinate string, including the scope when set.
func (a Artifact) String() string {
	if a.Scope != "" {
		return a.Coordinates() + " (" + a.Scope + ")"
	}
	return a.Coordinates()
}
