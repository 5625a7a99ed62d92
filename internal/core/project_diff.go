package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"buildlock/internal/ports"
	"buildlock/internal/types"
)

// DiffOptions selects which entity kinds take part in a check. Dependencies
// and the project descriptor are always compared.
type DiffOptions struct {
	IncludePlugins    bool
	IncludeExtensions bool
	IncludeParents    bool
}

func DiffOptionsFromConfig(config types.LockConfig) DiffOptions {
	return DiffOptions{
		IncludePlugins:    config.IncludePlugins,
		IncludeExtensions: config.IncludeExtensions,
		IncludeParents:    config.IncludeParents,
	}
}

type ProjectDiffer struct {
	Policy  ports.PolicyPort
	Options DiffOptions
}

func NewProjectDiffer(policy ports.PolicyPort, options DiffOptions) ProjectDiffer {
	return ProjectDiffer{
		Policy:  policy,
		Options: options,
	}
}

// Diff compares every entity kind independently. The actual project's
// version is what useProjectVersion substitutes.
func (p ProjectDiffer) Diff(ctx context.Context, locked types.LockedProject, actual types.LockedProject) types.ProjectDiff {
	differ := NewDiffer(p.Policy, actual.Project.Version)
	diff := types.ProjectDiff{
		Dependencies: differ.DiffDependencies(ctx, NewDependencies(locked.Dependencies), NewDependencies(actual.Dependencies)),
		Pom:          p.diffPom(ctx, locked, actual),
	}
	if p.Options.IncludePlugins {
		diff.Plugins = differ.DiffPlugins(ctx, NewPlugins(locked.Plugins), NewPlugins(actual.Plugins))
	}
	if p.Options.IncludeExtensions {
		diff.Extensions = differ.DiffExtensions(ctx, NewExtensions(locked.Extensions), NewExtensions(actual.Extensions))
	}
	if p.Options.IncludeParents {
		diff.Parents = differ.DiffParents(ctx, locked.Parents, actual.Parents)
	}
	log.Ctx(ctx).Debug().Bool("equal", diff.Equal()).Msg("project diff completed")
	return diff
}

// diffPom compares the project's own descriptor. The project version is
// expected to move between builds and is not compared.
func (p ProjectDiffer) diffPom(ctx context.Context, locked types.LockedProject, actual types.LockedProject) types.DiffReport {
	report := types.DiffReport{}
	var fields []string
	if locked.Project.GroupID != actual.Project.GroupID {
		fields = append(fields, FieldGroupID)
	}
	if locked.Project.ArtifactID != actual.Project.ArtifactID {
		fields = append(fields, FieldArtifactID)
	}
	if locked.Pom.Mismatch(actual.Pom) {
		id := locked.ProjectIdentifier()
		if p.Policy.IntegrityPolicy(id) == types.IntegrityPolicyIgnore {
			log.Ctx(ctx).Info().Str("artifact", id.String()).Msg("pom integrity mismatch ignored by policy")
		} else {
			fields = append(fields, FieldIntegrity)
		}
	}
	if len(fields) > 0 {
		report.Different = append(report.Different, fmt.Sprintf(
			differentMessageTemplate,
			renderProject(locked.Project),
			renderProject(actual.Project),
			strings.Join(fields, ", "),
		))
	}
	return report
}

func renderProject(project types.ProjectCoordinates) string {
	return fmt.Sprintf("%s:%s:pom:%s", project.GroupID, project.ArtifactID, project.Version)
}

// CanonicalProject sorts and deduplicates every entity set, including the
// dependencies of each plugin, so that serialization is deterministic. The
// parent chain keeps its order.
func CanonicalProject(project types.LockedProject) types.LockedProject {
	canonical := project
	canonical.Dependencies = NewDependencies(project.Dependencies).All()
	canonical.Extensions = NewExtensions(project.Extensions).All()
	plugins := NewPlugins(project.Plugins).All()
	for i := range plugins {
		plugins[i].Dependencies = NewArtifacts(plugins[i].Dependencies).All()
	}
	canonical.Plugins = plugins
	canonical.Parents = append([]types.Parent(nil), project.Parents...)
	return canonical
}
