package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"buildlock/internal/core"
	"buildlock/internal/types"
)

func testDigest(t *testing.T, content string) types.Integrity {
	t.Helper()
	digest, err := core.Digest([]byte(content))
	require.NoError(t, err)
	return types.CalculatedIntegrity(digest)
}

func testArtifact(t *testing.T, group string, name string, classifier string, artifactType string, version string, integrity types.Integrity) types.Artifact {
	t.Helper()
	id, err := types.NewArtifactIdentifier(group, name, classifier, artifactType)
	require.NoError(t, err)
	artifact, err := types.NewArtifact(id, version, types.ArtifactOptions{Integrity: integrity})
	require.NoError(t, err)
	return artifact
}

// testProject covers every entity kind, a classifier, all integrity kinds and
// an artifact shared by two plugins.
func testProject(t *testing.T) types.LockedProject {
	t.Helper()
	asm := testArtifact(t, "org.ow2.asm", "asm", "", "", "9.5", testDigest(t, "asm"))

	util := testArtifact(t, "com.example", "util", "tests", "test-jar", "2.1.0", testDigest(t, "util"))
	util.Scope = "test"
	util.Optional = true

	return types.LockedProject{
		LockFileVersion: types.CurrentLockFileVersion,
		Project:         types.ProjectCoordinates{GroupID: "org.acme", ArtifactID: "app", Version: "1.4.0"},
		Pom:             testDigest(t, "pom"),
		Dependencies: []types.Dependency{
			{Artifact: testArtifact(t, "org.acme", "core", "", "", "1.4.0", testDigest(t, "core"))},
			{Artifact: util},
			{Artifact: testArtifact(t, "org.acme", "generated", "", "", "1.4.0", types.FolderIntegrity())},
			{Artifact: testArtifact(t, "org.slf4j", "slf4j-api", "", "", "2.0.9", types.IgnoredIntegrity())},
		},
		Plugins: []types.Plugin{
			{
				Artifact:     testArtifact(t, "org.apache.maven.plugins", "maven-compiler-plugin", "", "maven-plugin", "3.11.0", testDigest(t, "compiler")),
				Dependencies: []types.Artifact{asm},
			},
			{
				Artifact:     testArtifact(t, "org.apache.maven.plugins", "maven-shade-plugin", "", "maven-plugin", "3.5.0", testDigest(t, "shade")),
				Dependencies: []types.Artifact{asm, testArtifact(t, "org.jdom", "jdom2", "", "", "2.0.6", testDigest(t, "jdom"))},
			},
		},
		Extensions: []types.Extension{
			{Artifact: testArtifact(t, "org.apache.maven.wagon", "wagon-ssh", "", "", "3.5.3", testDigest(t, "wagon"))},
		},
		Parents: []types.Parent{
			{Artifact: testArtifact(t, "org.acme", "acme-parent", "", "pom", "7", testDigest(t, "parent"))},
			{Artifact: testArtifact(t, "org.acme", "acme-root", "", "pom", "2", types.IgnoredIntegrity())},
		},
		Config: types.DefaultLockConfig(),
		Environment: types.Environment{
			OS:          "linux",
			Arch:        "amd64",
			ToolVersion: "dev",
		},
	}
}
