package ports

import "buildlock/internal/types"

// PolicyPort answers how an artifact is compared. Implementations fall back
// to check/check/false/false when no rule applies.
type PolicyPort interface {
	VersionPolicy(id types.ArtifactIdentifier) types.VersionPolicy
	IntegrityPolicy(id types.ArtifactIdentifier) types.IntegrityPolicy
	AllowMissing(id types.ArtifactIdentifier) bool
	AllowSuperfluous(id types.ArtifactIdentifier) bool
}

type PolicySourcePort interface {
	LoadPolicies(path string) ([]types.PolicyRule, error)
}
