package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

func sampleProject(t *testing.T) types.LockedProject {
	t.Helper()
	return types.LockedProject{
		LockFileVersion: types.CurrentLockFileVersion,
		Project:         types.ProjectCoordinates{GroupID: "org.acme", ArtifactID: "app", Version: "1.0"},
		Pom:             types.CalculatedIntegrity(digestA),
		Dependencies: []types.Dependency{
			testDependency(t, "org.acme", "web", "1.0", digestA),
			testDependency(t, "org.acme", "core", "1.0", digestB),
		},
		Plugins: []types.Plugin{{
			Artifact:     testArtifact(t, "org.build", "compiler", "3.1", digestA),
			Dependencies: []types.Artifact{testArtifact(t, "org.asm", "asm", "9.0", digestB)},
		}},
		Extensions: []types.Extension{{Artifact: testArtifact(t, "org.ext", "wagon", "1.0", "")}},
		Parents:    []types.Parent{testParent(t, "org.acme", "parent", "1")},
		Config:     types.DefaultLockConfig(),
	}
}

func TestProjectDiffSelfIsEqual(t *testing.T) {
	project := sampleProject(t)
	differ := NewProjectDiffer(stubPolicy{}, DiffOptionsFromConfig(project.Config))

	diff := differ.Diff(t.Context(), project, project)
	assert.True(t, diff.Equal())
	assert.Empty(t, diff.Render())
}

func TestProjectDiffExcludedKindsAreNotCompared(t *testing.T) {
	locked := sampleProject(t)
	actual := sampleProject(t)
	actual.Plugins = nil
	actual.Extensions = nil
	actual.Parents = nil

	all := NewProjectDiffer(stubPolicy{}, DiffOptions{IncludePlugins: true, IncludeExtensions: true, IncludeParents: true})
	assert.False(t, all.Diff(t.Context(), locked, actual).Equal())

	none := NewProjectDiffer(stubPolicy{}, DiffOptions{})
	assert.True(t, none.Diff(t.Context(), locked, actual).Equal())
}

func TestProjectDiffPom(t *testing.T) {
	locked := sampleProject(t)
	actual := sampleProject(t)
	actual.Pom = types.CalculatedIntegrity(digestB)
	actual.Project.Version = "1.1"

	diff := NewProjectDiffer(stubPolicy{}, DiffOptions{}).Diff(t.Context(), locked, actual)
	want := []string{"Expected org.acme:app:pom:1.0 but found org.acme:app:pom:1.1, wrong integrity"}
	if d := cmp.Diff(want, diff.Pom.Different); d != "" {
		t.Fatalf("unexpected pom report (-want +got):\n%s", d)
	}

	ignored := stubPolicy{integrity: map[string]types.IntegrityPolicy{"org.acme:app:pom": types.IntegrityPolicyIgnore}}
	diff = NewProjectDiffer(ignored, DiffOptions{}).Diff(t.Context(), locked, actual)
	assert.True(t, diff.Pom.Equal())
}

func TestProjectDiffRender(t *testing.T) {
	locked := sampleProject(t)
	actual := sampleProject(t)
	actual.Dependencies = actual.Dependencies[:1]
	actual.Extensions = append(actual.Extensions, types.Extension{Artifact: testArtifact(t, "org.ext", "ssh", "2.0", "")})

	diff := NewProjectDiffer(stubPolicy{}, DiffOptionsFromConfig(locked.Config)).Diff(t.Context(), locked, actual)
	require.False(t, diff.Equal())

	want := "Missing dependencies:\n" +
		"  org.acme:core:jar\n" +
		"Extraneous extensions:\n" +
		"  org.ext:ssh:jar:2.0:compile:optional=false\n"
	if d := cmp.Diff(want, diff.Render()); d != "" {
		t.Fatalf("unexpected render (-want +got):\n%s", d)
	}
}

func TestCanonicalProject(t *testing.T) {
	project := sampleProject(t)
	project.Dependencies = append(project.Dependencies, testDependency(t, "org.acme", "web", "9.9", ""))
	project.Parents = append(project.Parents, testParent(t, "org.acme", "aaa-root", "1"))

	canonical := CanonicalProject(project)
	require.Len(t, canonical.Dependencies, 2)
	assert.Equal(t, "org.acme:core:jar", canonical.Dependencies[0].Identifier().String())
	assert.Equal(t, "1.0", canonical.Dependencies[1].Version)

	var parents []string
	for _, parent := range canonical.Parents {
		parents = append(parents, parent.ID.ArtifactID)
	}
	if d := cmp.Diff([]string{"parent", "aaa-root"}, parents); d != "" {
		t.Fatalf("parent order changed (-want +got):\n%s", d)
	}
	assert.Len(t, project.Dependencies, 3)
}
