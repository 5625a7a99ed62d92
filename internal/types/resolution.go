package types

// ResolutionManifest is the document an external resolver hands over: the
// resolved artifacts of the current build. JSON documents are accepted as
// well since they parse as YAML.
type ResolutionManifest struct {
	Project      ManifestProject    `yaml:"project"`
	Dependencies []ManifestArtifact `yaml:"dependencies"`
	Plugins      []ManifestPlugin   `yaml:"plugins"`
	Extensions   []ManifestArtifact `yaml:"extensions"`

	// Parents lists the ancestor chain, nearest parent first.
	Parents []ManifestArtifact `yaml:"parents"`
}

type ManifestProject struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`

	// Pom is the path of the project's own descriptor. PomIntegrity takes
	// precedence when both are set.
	Pom          string `yaml:"pom,omitempty"`
	PomIntegrity string `yaml:"pomIntegrity,omitempty"`
}

// ManifestArtifact carries either File (digested while loading; a directory
// yields a folder marker), Integrity (a stored value) or neither (ignored).
type ManifestArtifact struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Classifier string `yaml:"classifier,omitempty"`
	Type       string `yaml:"type,omitempty"`
	Version    string `yaml:"version"`
	Scope      string `yaml:"scope,omitempty"`
	Optional   bool   `yaml:"optional,omitempty"`
	File       string `yaml:"file,omitempty"`
	Integrity  string `yaml:"integrity,omitempty"`
}

type ManifestPlugin struct {
	ManifestArtifact `yaml:",inline"`
	Dependencies     []ManifestArtifact `yaml:"dependencies,omitempty"`
}
