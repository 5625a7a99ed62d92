package app

import "buildlock/internal/types"

type LockRequest struct {
	LockFile   string
	Resolution string
	Format     types.LockFileFormat

	// Config is recorded in the lock file. Excluded entity kinds are not
	// written at all.
	Config types.LockConfig
}

type LockResult struct {
	Path         string
	Dependencies int
	Plugins      int
	Extensions   int
	Parents      int
	Written      bool
	Fingerprint  string
}

type CheckRequest struct {
	LockFile   string
	Resolution string
	PolicyFile string
	Format     types.LockFileFormat

	// Policies are applied after the policy file rules and therefore take
	// precedence over them.
	Policies               []types.PolicyRule
	AllowValidationFailure bool
}

type CheckResult struct {
	Diff types.ProjectDiff

	// Allowed is set when the lock file did not match but validation
	// failures were allowed.
	Allowed bool
}

type ValidateRequest struct {
	LockFile   string
	PolicyFile string
	Format     types.LockFileFormat
	Policies   []types.PolicyRule
}

type ValidateResult struct {
	Project         types.ProjectCoordinates
	LockFileVersion string
	Dependencies    int
	Plugins         int
	Extensions      int
	Parents         int
	PolicyRules     int
}

type InspectRequest struct {
	LockFile string
	Format   types.LockFileFormat
}

type InspectResult struct {
	Project         types.ProjectCoordinates
	LockFileVersion string
	Pom             types.Integrity
	Kinds           []InspectKindSummary
	Integrity       []InspectIntegritySummary
	Config          types.LockConfig
	Environment     types.Environment
	Fingerprint     string
}

type InspectKindSummary struct {
	Kind      types.EntityKind
	Count     int
	Artifacts []string
}

type InspectIntegritySummary struct {
	Kind  types.IntegrityKind
	Count int
}
