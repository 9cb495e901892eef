package domain

// Artifact is a file tracked by the build.
// Source artifacts live in the workspace; derived artifacts are produced by exactly one action.
type Artifact struct {
	Path   InternedString
	Source bool
}

// NewSourceArtifact creates an artifact for a workspace-relative source file.
func NewSourceArtifact(p string) Artifact {
	return Artifact{Path: NewInternedString(p), Source: true}
}

// NewDerivedArtifact creates an artifact for a file under the output tree.
func NewDerivedArtifact(p string) Artifact {
	return Artifact{Path: NewInternedString(p)}
}

// String returns the artifact path.
func (a Artifact) String() string {
	return a.Path.String()
}
