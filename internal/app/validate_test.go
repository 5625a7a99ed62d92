package app

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

func TestValidateLockFile(t *testing.T) {
	ws := newWorkspace(t)
	service := newTestService()
	lockWorkspace(t, service, ws, "buildlock.json", types.DefaultLockConfig())
	writeFile(t, ws.path("policies.yaml"), `policies:
  - includes: ["org.acme"]
    version: useProjectVersion
  - excludes: ["com.example"]
    allow_superfluous: true
`)

	result, err := service.Validate(t.Context(), ValidateRequest{
		LockFile:   ws.path("buildlock.json"),
		PolicyFile: ws.path("policies.yaml"),
		Policies:   []types.PolicyRule{{Integrity: policyPtr(types.IntegrityPolicyIgnore)}},
	})
	require.NoError(t, err)
	assert.Equal(t, types.ProjectCoordinates{GroupID: "org.acme", ArtifactID: "app", Version: "1.0.0"}, result.Project)
	assert.Equal(t, types.CurrentLockFileVersion, result.LockFileVersion)
	assert.Equal(t, 3, result.Dependencies)
	assert.Equal(t, 1, result.Plugins)
	assert.Equal(t, 1, result.Extensions)
	assert.Equal(t, 1, result.Parents)
	assert.Equal(t, 3, result.PolicyRules)
}

func TestValidateErrors(t *testing.T) {
	ws := newWorkspace(t)
	service := newTestService()

	_, err := service.Validate(t.Context(), ValidateRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.Validate(t.Context(), ValidateRequest{LockFile: ws.path("buildlock.json")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	writeFile(t, ws.path("broken.json"), `{"lockFileVersion": "2.0.0", "project": {"groupId": "g", "artifactId": "a"}}`)
	_, err = service.Validate(t.Context(), ValidateRequest{LockFile: ws.path("broken.json")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "unsupported lockFileVersion 2.0.0")

	lockWorkspace(t, service, ws, "buildlock.json", types.DefaultLockConfig())
	writeFile(t, ws.path("policies.yaml"), "policies:\n  - version: sometimes\n")
	_, err = service.Validate(t.Context(), ValidateRequest{
		LockFile:   ws.path("buildlock.json"),
		PolicyFile: ws.path("policies.yaml"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "invalid policy rule 1")
}
