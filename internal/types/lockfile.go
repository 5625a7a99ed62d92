package types

// CurrentLockFileVersion is written into every new lock file. Readers accept
// any 1.x version.
const CurrentLockFileVersion = "1.0.0"

const ChecksumAlgorithmSHA512 = "sha512"

type ProjectCoordinates struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// LockConfig records the switches a lock file was created with. A check run
// compares only the entity kinds that were locked.
type LockConfig struct {
	IncludePlugins         bool
	IncludeExtensions      bool
	IncludeParents         bool
	AllowValidationFailure bool
	ChecksumAlgorithm      string
}

func DefaultLockConfig() LockConfig {
	return LockConfig{
		IncludePlugins:    true,
		IncludeExtensions: true,
		IncludeParents:    true,
		ChecksumAlgorithm: ChecksumAlgorithmSHA512,
	}
}

// Environment is informational only and never compared.
type Environment struct {
	OS          string
	Arch        string
	ToolVersion string
}

type LockedProject struct {
	LockFileVersion string
	Project         ProjectCoordinates
	Pom             Integrity
	Dependencies    []Dependency
	Plugins         []Plugin
	Extensions      []Extension
	Parents         []Parent
	Config          LockConfig
	Environment     Environment
}

// ProjectIdentifier is the identifier used to look up policies for the
// project's own descriptor.
func (p LockedProject) ProjectIdentifier() ArtifactIdentifier {
	return ArtifactIdentifier{
		GroupID:    p.Project.GroupID,
		ArtifactID: p.Project.ArtifactID,
		Type:       "pom",
	}
}
