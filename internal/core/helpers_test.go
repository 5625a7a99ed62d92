package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

type stubPolicy struct {
	version          map[string]types.VersionPolicy
	integrity        map[string]types.IntegrityPolicy
	allowMissing     map[string]bool
	allowSuperfluous map[string]bool
}

func (p stubPolicy) VersionPolicy(id types.ArtifactIdentifier) types.VersionPolicy {
	if value, ok := p.version[id.String()]; ok {
		return value
	}
	return types.VersionPolicyCheck
}

func (p stubPolicy) IntegrityPolicy(id types.ArtifactIdentifier) types.IntegrityPolicy {
	if value, ok := p.integrity[id.String()]; ok {
		return value
	}
	return types.IntegrityPolicyCheck
}

func (p stubPolicy) AllowMissing(id types.ArtifactIdentifier) bool {
	return p.allowMissing[id.String()]
}

func (p stubPolicy) AllowSuperfluous(id types.ArtifactIdentifier) bool {
	return p.allowSuperfluous[id.String()]
}

func testArtifact(t *testing.T, group string, name string, version string, digest string) types.Artifact {
	t.Helper()
	id, err := types.NewArtifactIdentifier(group, name, "", "")
	require.NoError(t, err)
	integrity := types.IgnoredIntegrity()
	if digest != "" {
		integrity = types.CalculatedIntegrity(digest)
	}
	artifact, err := types.NewArtifact(id, version, types.ArtifactOptions{Integrity: integrity})
	require.NoError(t, err)
	return artifact
}

func testDependency(t *testing.T, group string, name string, version string, digest string) types.Dependency {
	t.Helper()
	return types.Dependency{Artifact: testArtifact(t, group, name, version, digest)}
}
